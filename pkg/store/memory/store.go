// Package memory provides an in-process implementation of the repository
// store capability. It backs unit tests and dry-run tooling and mirrors the
// MongoDB store's semantics: ids are ObjectID hex strings, values keep bson
// primitive types, sorting breaks ties on _id.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dieselhub/dieselhub/pkg/repository"
)

// Store is an in-memory document store. Safe for concurrent use.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string]repository.Record
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string]map[string]repository.Record)}
}

// Insert stores a new document and returns the assigned id.
func (s *Store) Insert(_ context.Context, collection string, doc repository.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := primitive.NewObjectID().Hex()
	stored, err := copyRecord(doc)
	if err != nil {
		return "", err
	}
	stored["_id"] = id

	if s.data[collection] == nil {
		s.data[collection] = make(map[string]repository.Record)
	}
	s.data[collection][id] = stored
	return id, nil
}

// Get returns the document with the given id, or (nil, nil) when absent.
func (s *Store) Get(_ context.Context, collection, id string) (repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.data[collection][id]
	if !ok {
		return nil, nil
	}
	return copyRecord(rec)
}

// Query returns all matching documents in the fixed clause order: conditions,
// sort, cursor, limit.
func (s *Store) Query(_ context.Context, collection string, q repository.Query) ([]repository.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]repository.Record, 0)
	for _, rec := range s.data[collection] {
		ok, err := matchesAll(rec, q.Conditions)
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, rec)
		}
	}

	sortField := q.Sort.Field
	if sortField == "" {
		sortField = "_id"
	}
	asc := q.Sort.Order != repository.SortDesc
	sort.SliceStable(matched, func(i, j int) bool {
		c := compareValues(fieldValue(matched[i], sortField), fieldValue(matched[j], sortField))
		if c == 0 {
			c = strings.Compare(idOf(matched[i]), idOf(matched[j]))
		}
		if asc {
			return c < 0
		}
		return c > 0
	})

	if q.StartAfter != "" {
		key, err := repository.DecodeCursor(q.StartAfter)
		if err != nil {
			return nil, err
		}
		after := make([]repository.Record, 0, len(matched))
		for _, rec := range matched {
			if isAfter(rec, key, asc) {
				after = append(after, rec)
			}
		}
		matched = after
	}

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]repository.Record, 0, len(matched))
	for _, rec := range matched {
		cp, err := copyRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

// Update merges fields into an existing document.
func (s *Store) Update(_ context.Context, collection, id string, fields repository.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data[collection][id]
	if !ok {
		return repository.ErrNotFound
	}
	cp, err := copyRecord(fields)
	if err != nil {
		return err
	}
	for k, v := range cp {
		if k == "_id" {
			continue
		}
		rec[k] = v
	}
	return nil
}

// Delete removes a document; absent ids succeed.
func (s *Store) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[collection], id)
	return nil
}

// Len reports the number of documents stored in a collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data[collection])
}

func idOf(rec repository.Record) string {
	id, _ := rec["_id"].(string)
	return id
}

// fieldValue resolves a possibly dotted field path ("vehicle.make") against
// a record, matching how MongoDB addresses embedded documents. A missing
// segment yields nil.
func fieldValue(rec repository.Record, field string) any {
	if !strings.Contains(field, ".") {
		return rec[field]
	}
	var current any = map[string]any(rec)
	for _, segment := range strings.Split(field, ".") {
		switch m := current.(type) {
		case map[string]any:
			current = m[segment]
		case bson.M:
			current = m[segment]
		case repository.Record:
			current = m[segment]
		default:
			return nil
		}
	}
	return current
}

// isAfter reports whether rec sits strictly after the cursor position in the
// scan direction.
func isAfter(rec repository.Record, key repository.CursorKey, asc bool) bool {
	c := compareValues(fieldValue(rec, key.Field), key.Value)
	if c != 0 {
		return (c > 0) == asc
	}
	idc := strings.Compare(idOf(rec), key.ID)
	if idc == 0 {
		return false
	}
	return (idc > 0) == asc
}

func matchesAll(rec repository.Record, conditions []repository.Condition) (bool, error) {
	for _, cond := range conditions {
		ok, err := matches(rec, cond)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func matches(rec repository.Record, cond repository.Condition) (bool, error) {
	value := fieldValue(rec, cond.Field)
	switch cond.Op {
	case repository.OpEqual:
		return compareValues(value, cond.Value) == 0, nil
	case repository.OpNotEqual:
		return compareValues(value, cond.Value) != 0, nil
	case repository.OpGreater:
		return compareValues(value, cond.Value) > 0, nil
	case repository.OpGreaterOrEqual:
		return compareValues(value, cond.Value) >= 0, nil
	case repository.OpLess:
		return compareValues(value, cond.Value) < 0, nil
	case repository.OpLessOrEqual:
		return compareValues(value, cond.Value) <= 0, nil
	case repository.OpIn:
		return containsValue(cond.Value, value), nil
	case repository.OpContains:
		return containsValue(value, cond.Value), nil
	default:
		return false, fmt.Errorf("unsupported filter operator %q", cond.Op)
	}
}

// containsValue reports whether haystack (a slice value) holds an element
// equal to needle.
func containsValue(haystack, needle any) bool {
	if haystack == nil {
		return false
	}
	v := reflect.ValueOf(haystack)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if compareValues(v.Index(i).Interface(), needle) == 0 {
			return true
		}
	}
	return false
}

// compareValues orders two document values: nil first, then numerics and
// timestamps on their numeric value, strings lexicographically, booleans
// false-before-true. Mixed incomparable types fall back to their string
// forms, which keeps the ordering total and deterministic.
func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return strings.Compare(as, bs)
		}
	}

	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case ab == bb:
				return 0
			case !ab:
				return -1
			default:
				return 1
			}
		}
	}

	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case primitive.DateTime:
		return float64(n), true
	case time.Time:
		return float64(primitive.NewDateTimeFromTime(n)), true
	default:
		return 0, false
	}
}

// copyRecord deep-copies a record through a bson round-trip so stored
// documents and returned documents never share mutable state, and value
// types are normalized to the wire form.
func copyRecord(rec repository.Record) (repository.Record, error) {
	raw, err := bson.Marshal(bson.M(rec))
	if err != nil {
		return nil, fmt.Errorf("failed to copy record: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to copy record: %w", err)
	}
	return repository.Record(m), nil
}
