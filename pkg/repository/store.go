package repository

import "context"

// Record is a raw stored document. The store's identity token is always
// exposed under "_id" as a plain string; all other values keep the store's
// native primitive types.
type Record map[string]any

// Store is the document-database capability this layer consumes. It is
// deliberately minimal: per-document atomic writes, no multi-document
// transactions, no guarantee that a freshly written document is immediately
// visible to Query.
type Store interface {
	// Insert stores a new document and returns the assigned id.
	Insert(ctx context.Context, collection string, doc Record) (string, error)

	// Get returns the document with the given id, or (nil, nil) when absent.
	Get(ctx context.Context, collection, id string) (Record, error)

	// Query returns all documents matching the descriptor, translated in the
	// fixed clause order conditions → sort → cursor → limit.
	Query(ctx context.Context, collection string, q Query) ([]Record, error)

	// Update merges fields into an existing document. Returns ErrNotFound
	// when the id does not exist.
	Update(ctx context.Context, collection, id string, fields Record) error

	// Delete removes a document. Deleting an absent id is not an error.
	Delete(ctx context.Context, collection, id string) error
}
