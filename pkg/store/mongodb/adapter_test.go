package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
)

func TestNewAdapter_Validation(t *testing.T) {
	if _, err := NewAdapter(Config{}, logger.Noop()); err == nil {
		t.Fatal("expected error for empty URI")
	}
	if _, err := NewAdapter(Config{URI: "mongodb://localhost:27017"}, logger.Noop()); err == nil {
		t.Fatal("expected error for empty database")
	}
}

func TestPing_WhenClosed(t *testing.T) {
	a := &Adapter{closed: true}
	if err := a.Ping(context.Background()); err == nil {
		t.Fatal("expected error when adapter is closed")
	}
}

func TestClose_IdempotentWhenAlreadyClosed(t *testing.T) {
	a := &Adapter{closed: true}
	if err := a.Close(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestWithOperationTimeout_UsesAdapterTimeoutWhenNoDeadline(t *testing.T) {
	a := &Adapter{timeout: 2 * time.Second}

	ctx, cancel := a.withOperationTimeout(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("expected deadline to be set")
	}
}

func TestWithOperationTimeout_KeepsCallerDeadline(t *testing.T) {
	a := &Adapter{timeout: 2 * time.Second}

	parent, parentCancel := context.WithDeadline(context.Background(), time.Now().Add(time.Hour))
	defer parentCancel()

	ctx, cancel := a.withOperationTimeout(parent)
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatal("expected deadline to be present")
	}
	if time.Until(deadline) < 30*time.Minute {
		t.Fatal("caller deadline was shortened")
	}
}

func TestNewDocumentStore_Validation(t *testing.T) {
	if _, err := NewDocumentStore(nil); err == nil {
		t.Fatal("expected error for nil adapter")
	}
	store, err := NewDocumentStore(&Adapter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store == nil {
		t.Fatal("expected non-nil store")
	}
}
