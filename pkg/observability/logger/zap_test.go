package logger

import "testing"

func TestNewZapLogger_Defaults(t *testing.T) {
	l, err := NewZapLogger(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestNewZapLogger_AllLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", ""} {
		if _, err := NewZapLogger(Config{Level: level, Format: "json"}); err != nil {
			t.Fatalf("level %q: unexpected error: %v", level, err)
		}
	}
}

func TestNewZapLogger_InvalidLevel(t *testing.T) {
	if _, err := NewZapLogger(Config{Level: "verbose"}); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewZapLogger_InvalidFormat(t *testing.T) {
	if _, err := NewZapLogger(Config{Level: "info", Format: "xml"}); err == nil {
		t.Fatal("expected error for invalid format")
	}
}

func TestNewZapLogger_TextFormat(t *testing.T) {
	l, err := NewZapLogger(Config{Level: "info", Format: "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Info("hello", "key", "value")
}

func TestWith_ReturnsChildLogger(t *testing.T) {
	l, err := NewZapLogger(DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	child := l.With("collection", "manufacturers")
	if child == nil {
		t.Fatal("expected non-nil child logger")
	}
}

func TestNoop_DoesNothing(t *testing.T) {
	l := Noop()
	l.Debug("a")
	l.Info("b", "k", "v")
	l.Warn("c")
	l.Error("d")
	if l.With("k", "v") == nil {
		t.Fatal("expected non-nil logger from With")
	}
}
