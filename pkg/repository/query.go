package repository

import (
	"encoding/base64"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Operator identifies a filter comparison. Unsupported operator values are a
// caller programming error: store implementations fail fast on them.
type Operator string

const (
	OpEqual          Operator = "=="
	OpNotEqual       Operator = "!="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	// OpIn matches when the stored value equals any element of the supplied
	// slice.
	OpIn Operator = "in"
	// OpContains matches when the stored array field contains the supplied
	// value.
	OpContains Operator = "array-contains"
)

// Condition is a single (field, operator, value) filter triple.
type Condition struct {
	Field string
	Op    Operator
	Value any
}

// SortOrder defines the direction of sorting.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Sort specifies field and direction for sorting results. At most one sort
// key per query.
type Sort struct {
	Field string
	Order SortOrder
}

// Cursor is an opaque marker identifying a position in a sorted result set.
// A cursor is only valid for queries with the same conditions and sort as the
// query that produced it; reusing it elsewhere leaves the scan order
// undefined.
type Cursor string

// Query is a declarative description of a read request. Conditions are
// combined conjunctively (AND only), in the order supplied. Store
// implementations must translate clauses in a fixed order: conditions first
// (as supplied), then sort, then cursor, then limit — some document stores
// require composite indexes whose clause order must match exactly.
type Query struct {
	Conditions []Condition
	Sort       Sort
	Limit      int
	StartAfter Cursor
}

// NewQuery returns an empty query matching every document in a collection.
func NewQuery() Query { return Query{} }

// Where appends a filter condition, returning the extended query. The
// receiver is not modified.
func (q Query) Where(field string, op Operator, value any) Query {
	conditions := q.Conditions[:len(q.Conditions):len(q.Conditions)]
	q.Conditions = append(conditions, Condition{Field: field, Op: op, Value: value})
	return q
}

// OrderBy sets the sort key, returning the modified query.
func (q Query) OrderBy(field string, order SortOrder) Query {
	q.Sort = Sort{Field: field, Order: order}
	return q
}

// WithLimit caps the number of returned records.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// After resumes the scan strictly after the position identified by the
// cursor. The query's sort must match the cursor's origin query.
func (q Query) After(c Cursor) Query {
	q.StartAfter = c
	return q
}

// CursorKey is the decoded form of a Cursor: the sort field, the value the
// last returned record held for it, and that record's id as a tiebreaker.
type CursorKey struct {
	Field string `bson:"f"`
	Value any    `bson:"v"`
	ID    string `bson:"id"`
}

// DecodeCursor unpacks an opaque cursor for store implementations.
func DecodeCursor(c Cursor) (CursorKey, error) {
	var key CursorKey
	raw, err := base64.RawURLEncoding.DecodeString(string(c))
	if err != nil {
		return key, fmt.Errorf("malformed cursor: %w", err)
	}
	if err := bson.Unmarshal(raw, &key); err != nil {
		return key, fmt.Errorf("malformed cursor: %w", err)
	}
	return key, nil
}

// EncodeCursor builds the opaque cursor marking a record's position in a
// scan sorted on the given field.
func EncodeCursor(field string, rec Record) (Cursor, error) {
	id, _ := rec[fieldID].(string)
	key := CursorKey{Field: field, Value: rec[field], ID: id}
	raw, err := bson.Marshal(key)
	if err != nil {
		return "", fmt.Errorf("failed to encode cursor: %w", err)
	}
	return Cursor(base64.RawURLEncoding.EncodeToString(raw)), nil
}
