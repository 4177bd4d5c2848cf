package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestQuery_WhereAppendsInOrder(t *testing.T) {
	q := NewQuery().
		Where("status", OpEqual, "published").
		Where("locale", OpEqual, "uk")

	if len(q.Conditions) != 2 {
		t.Fatalf("expected 2 conditions, got %d", len(q.Conditions))
	}
	if q.Conditions[0].Field != "status" || q.Conditions[1].Field != "locale" {
		t.Fatalf("wrong order: %+v", q.Conditions)
	}
}

func TestQuery_WhereDoesNotAliasBase(t *testing.T) {
	base := NewQuery().Where("status", OpEqual, "published")

	a := base.Where("locale", OpEqual, "uk")
	b := base.Where("locale", OpEqual, "en")

	if a.Conditions[1].Value != "uk" {
		t.Fatalf("first branch corrupted: %v", a.Conditions[1].Value)
	}
	if b.Conditions[1].Value != "en" {
		t.Fatalf("second branch corrupted: %v", b.Conditions[1].Value)
	}
	if len(base.Conditions) != 1 {
		t.Fatalf("base query modified: %+v", base.Conditions)
	}
}

func TestQuery_Builders(t *testing.T) {
	q := NewQuery().OrderBy("name", SortDesc).WithLimit(5).After("abc")
	if q.Sort.Field != "name" || q.Sort.Order != SortDesc {
		t.Fatalf("sort not set: %+v", q.Sort)
	}
	if q.Limit != 5 {
		t.Fatalf("limit = %d", q.Limit)
	}
	if q.StartAfter != "abc" {
		t.Fatalf("cursor = %q", q.StartAfter)
	}
}

func TestCursor_RoundTrip(t *testing.T) {
	when := primitive.NewDateTimeFromTime(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	rec := Record{"_id": "665a1b2c3d4e5f6a7b8c9d0e", "publishedAt": when}

	cursor, err := EncodeCursor("publishedAt", rec)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	key, err := DecodeCursor(cursor)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if key.Field != "publishedAt" {
		t.Fatalf("field = %q", key.Field)
	}
	if key.ID != "665a1b2c3d4e5f6a7b8c9d0e" {
		t.Fatalf("id = %q", key.ID)
	}
	if got, ok := key.Value.(primitive.DateTime); !ok || got != when {
		t.Fatalf("value = %v (%T), want %v", key.Value, key.Value, when)
	}
}

func TestCursor_DecodeMalformed(t *testing.T) {
	if _, err := DecodeCursor("!!not-base64!!"); err == nil {
		t.Fatal("expected error for malformed cursor")
	}
	if _, err := DecodeCursor("bm90LWJzb24"); err == nil {
		t.Fatal("expected error for non-bson cursor payload")
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := &DuplicateKeyError{Collection: "manufacturers", Field: "slug", Value: "bosch"}
	if cause.Error() == "" {
		t.Fatal("expected message")
	}
	wrapped := &StorageError{Collection: "manufacturers", Op: "create", Err: cause}
	if wrapped.Unwrap() != cause {
		t.Fatal("unwrap lost cause")
	}
	if !IsDuplicateKey(wrapped) {
		t.Fatal("expected duplicate key to be detectable through wrapping")
	}
}

func TestDuplicateKeyError_MessageWithoutField(t *testing.T) {
	err := &DuplicateKeyError{Collection: "injectors"}
	if err.Error() != "injectors: duplicate key" {
		t.Fatalf("message = %q", err.Error())
	}
}
