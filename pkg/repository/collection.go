package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
	"github.com/dieselhub/dieselhub/pkg/observability/metrics"
)

// Page is one page of a cursor-paginated scan.
type Page[T any] struct {
	Items      []*T
	NextCursor Cursor
	HasMore    bool
}

// Collection is the generic repository for one logical collection. It owns
// the document envelope (timestamps, identity, creator reference) and
// delegates storage I/O to the Store capability. Instances hold no mutable
// state beyond configuration and are safe for concurrent use.
type Collection[T any, PT interface {
	*T
	Document
}] struct {
	name    string
	store   Store
	log     logger.Logger
	metrics *metrics.RepositoryMetrics
	now     func() time.Time
}

// CollectionOption configures a Collection.
type CollectionOption func(*collectionOptions)

type collectionOptions struct {
	now     func() time.Time
	metrics *metrics.RepositoryMetrics
}

// WithClock overrides the timestamp source. Intended for tests.
func WithClock(now func() time.Time) CollectionOption {
	return func(o *collectionOptions) { o.now = now }
}

// WithMetrics enables per-operation prometheus counters.
func WithMetrics(m *metrics.RepositoryMetrics) CollectionOption {
	return func(o *collectionOptions) { o.metrics = m }
}

// NewCollection creates a repository bound to one collection name.
func NewCollection[T any, PT interface {
	*T
	Document
}](name string, store Store, log logger.Logger, opts ...CollectionOption) *Collection[T, PT] {
	o := collectionOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Collection[T, PT]{
		name:    name,
		store:   store,
		log:     log.With("collection", name),
		metrics: o.metrics,
		now:     o.now,
	}
}

// Name returns the collection name.
func (c *Collection[T, PT]) Name() string { return c.name }

// Create persists a new entity. Any caller-supplied envelope values are
// discarded: both timestamps are stamped to now, the creator reference is set
// from actorID (empty means anonymous), and the store assigns the id, which
// is written back onto the entity.
func (c *Collection[T, PT]) Create(ctx context.Context, entity PT, actorID string) error {
	if entity == nil {
		return errors.New("entity cannot be nil")
	}
	now := c.timestamp()
	env := entity.envelope()
	env.ID = ""
	env.CreatedAt = now
	env.UpdatedAt = now
	env.CreatedBy = actorID

	doc, err := toRecord(entity)
	if err != nil {
		return fmt.Errorf("failed to encode %s document: %w", c.name, err)
	}
	delete(doc, fieldID)

	id, err := c.store.Insert(ctx, c.name, doc)
	if err != nil {
		if IsDuplicateKey(err) {
			return err
		}
		return c.fail("create", err)
	}
	env.ID = id
	c.observe("create")
	return nil
}

// GetByID returns the entity with the given id, or (nil, nil) when it does
// not exist. Only transport and storage failures produce an error.
func (c *Collection[T, PT]) GetByID(ctx context.Context, id string) (PT, error) {
	if id == "" {
		return nil, nil
	}
	rec, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return nil, c.fail("get", err)
	}
	if rec == nil {
		return nil, nil
	}
	c.observe("get")
	return decodeRecord[T](rec)
}

// GetAll returns every record matching the query, unpaginated. The caller is
// responsible for not invoking this against unbounded collections.
func (c *Collection[T, PT]) GetAll(ctx context.Context, q Query) ([]*T, error) {
	recs, err := c.store.Query(ctx, c.name, q)
	if err != nil {
		return nil, c.fail("query", err)
	}
	items := make([]*T, 0, len(recs))
	for _, rec := range recs {
		item, err := decodeRecord[T](rec)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s document: %w", c.name, err)
		}
		items = append(items, item)
	}
	c.observe("query")
	return items, nil
}

// GetFirst returns the first record matching the query, or (nil, nil) when
// nothing matches.
func (c *Collection[T, PT]) GetFirst(ctx context.Context, q Query) (PT, error) {
	items, err := c.GetAll(ctx, q.WithLimit(1))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}

// GetPaginated returns one page of at most pageSize records. It requests
// pageSize+1 records from the store: an extra record means another page
// exists, and the cursor for it identifies the last record actually
// returned. When the query carries no sort key, createdAt descending is used
// so cursors stay well-defined.
func (c *Collection[T, PT]) GetPaginated(ctx context.Context, pageSize int, q Query) (Page[T], error) {
	if pageSize <= 0 {
		return Page[T]{}, fmt.Errorf("page size must be positive, got %d", pageSize)
	}
	if q.Sort.Field == "" {
		q.Sort = Sort{Field: fieldCreatedAt, Order: SortDesc}
	}

	recs, err := c.store.Query(ctx, c.name, q.WithLimit(pageSize+1))
	if err != nil {
		return Page[T]{}, c.fail("paginate", err)
	}

	hasMore := len(recs) > pageSize
	if hasMore {
		recs = recs[:pageSize]
	}

	page := Page[T]{Items: make([]*T, 0, len(recs)), HasMore: hasMore}
	for _, rec := range recs {
		item, err := decodeRecord[T](rec)
		if err != nil {
			return Page[T]{}, fmt.Errorf("failed to decode %s document: %w", c.name, err)
		}
		page.Items = append(page.Items, item)
	}
	if hasMore && len(recs) > 0 {
		cursor, err := EncodeCursor(q.Sort.Field, recs[len(recs)-1])
		if err != nil {
			return Page[T]{}, err
		}
		page.NextCursor = cursor
	}
	c.observe("paginate")
	return page, nil
}

// Update merges the patch onto the stored document (field-level merge, not a
// whole-document replace) and stamps updatedAt. Envelope fields present in
// the patch are silently dropped; the typed patch structs of the entity
// packages cannot express them in the first place. Returns ErrNotFound when
// the id does not exist, otherwise the re-read post-update entity.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, patch any) (PT, error) {
	fields, err := toRecord(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s patch: %w", c.name, err)
	}
	delete(fields, fieldID)
	delete(fields, fieldCreatedAt)
	delete(fields, fieldCreatedBy)
	fields[fieldUpdatedAt] = primitive.NewDateTimeFromTime(c.timestamp())

	if err := c.store.Update(ctx, c.name, id, fields); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		if IsDuplicateKey(err) {
			return nil, err
		}
		return nil, c.fail("update", err)
	}

	entity, err := c.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entity == nil {
		// Deleted between the write and the re-read.
		return nil, ErrNotFound
	}
	c.observe("update")
	return entity, nil
}

// Delete removes the document. Deleting an id that does not exist succeeds.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.name, id); err != nil {
		return c.fail("delete", err)
	}
	c.observe("delete")
	return nil
}

// Exists reports whether a document with the given id is stored. Absence is
// never an error.
func (c *Collection[T, PT]) Exists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	rec, err := c.store.Get(ctx, c.name, id)
	if err != nil {
		return false, c.fail("exists", err)
	}
	return rec != nil, nil
}

// Count returns the number of records matching the query's conditions. It
// materializes the full filtered result set and measures it — O(n) in
// matched documents. Acceptable only because this system's collections hold
// at most a few thousand records; do not use it as a general counting
// primitive.
func (c *Collection[T, PT]) Count(ctx context.Context, q Query) (int, error) {
	q.Limit = 0
	q.StartAfter = ""
	recs, err := c.store.Query(ctx, c.name, q)
	if err != nil {
		return 0, c.fail("count", err)
	}
	c.observe("count")
	return len(recs), nil
}

// timestamp returns now truncated to millisecond precision, matching the
// resolution documents survive a store round-trip with.
func (c *Collection[T, PT]) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

func (c *Collection[T, PT]) observe(op string) {
	if c.metrics != nil {
		c.metrics.ObserveOperation(c.name, op)
	}
}

func (c *Collection[T, PT]) fail(op string, err error) error {
	c.log.Error("storage operation failed", "operation", op, "error", err)
	if c.metrics != nil {
		c.metrics.ObserveError(c.name, op)
	}
	return &StorageError{Collection: c.name, Op: op, Err: err}
}

// toRecord converts a struct (entity or patch) into a raw document through a
// bson round-trip, so field names and value types match the wire form
// exactly.
func toRecord(v any) (Record, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return Record(m), nil
}

// decodeRecord converts a raw stored document into a typed entity.
func decodeRecord[T any](rec Record) (*T, error) {
	raw, err := bson.Marshal(bson.M(rec))
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := bson.Unmarshal(raw, out); err != nil {
		return nil, err
	}
	return out, nil
}
