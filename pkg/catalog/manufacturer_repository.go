package catalog

import (
	"context"
	"fmt"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
	"github.com/dieselhub/dieselhub/pkg/repository"
)

// ManufacturerRepository specializes the generic collection for
// manufacturers: slug lookups and an advisory slug-uniqueness check on
// writes.
type ManufacturerRepository struct {
	col *repository.Collection[Manufacturer, *Manufacturer]
}

// NewManufacturerRepository creates the repository.
func NewManufacturerRepository(store repository.Store, log logger.Logger, opts ...repository.CollectionOption) *ManufacturerRepository {
	return &ManufacturerRepository{
		col: repository.NewCollection[Manufacturer, *Manufacturer](CollectionManufacturers, store, log, opts...),
	}
}

// Create persists a new manufacturer after checking the slug is free. The
// check-then-act is racy; the store's unique index on slug is the
// authoritative guard.
func (r *ManufacturerRepository) Create(ctx context.Context, m *Manufacturer, actorID string) error {
	if m.Name == "" {
		return fmt.Errorf("manufacturer name is required")
	}
	if m.Slug == "" {
		return fmt.Errorf("manufacturer slug is required")
	}
	existing, err := r.GetBySlug(ctx, m.Slug)
	if err != nil {
		return err
	}
	if existing != nil {
		return &repository.DuplicateKeyError{Collection: CollectionManufacturers, Field: "slug", Value: m.Slug}
	}
	return r.col.Create(ctx, m, actorID)
}

// GetByID returns the manufacturer or (nil, nil) when absent.
func (r *ManufacturerRepository) GetByID(ctx context.Context, id string) (*Manufacturer, error) {
	return r.col.GetByID(ctx, id)
}

// GetBySlug returns the manufacturer with the given slug, or (nil, nil).
func (r *ManufacturerRepository) GetBySlug(ctx context.Context, slug string) (*Manufacturer, error) {
	q := repository.NewQuery().Where("slug", repository.OpEqual, slug)
	return r.col.GetFirst(ctx, q)
}

// GetAll returns all manufacturers matching the query.
func (r *ManufacturerRepository) GetAll(ctx context.Context, q repository.Query) ([]*Manufacturer, error) {
	return r.col.GetAll(ctx, q)
}

// GetActive returns active manufacturers in display order.
func (r *ManufacturerRepository) GetActive(ctx context.Context) ([]*Manufacturer, error) {
	q := repository.NewQuery().
		Where("active", repository.OpEqual, true).
		OrderBy("sortOrder", repository.SortAsc)
	return r.col.GetAll(ctx, q)
}

// GetPaginated returns one page of manufacturers.
func (r *ManufacturerRepository) GetPaginated(ctx context.Context, pageSize int, q repository.Query) (repository.Page[Manufacturer], error) {
	return r.col.GetPaginated(ctx, pageSize, q)
}

// Update applies a partial update. Changing the slug re-runs the uniqueness
// check against other manufacturers.
func (r *ManufacturerRepository) Update(ctx context.Context, id string, patch ManufacturerPatch) (*Manufacturer, error) {
	if patch.Slug != nil {
		existing, err := r.GetBySlug(ctx, *patch.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, &repository.DuplicateKeyError{Collection: CollectionManufacturers, Field: "slug", Value: *patch.Slug}
		}
	}
	return r.col.Update(ctx, id, patch)
}

// Delete removes a manufacturer. Injectors referencing it are left in place;
// readers tolerate the broken reference.
func (r *ManufacturerRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

// Exists reports whether the manufacturer is stored.
func (r *ManufacturerRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.col.Exists(ctx, id)
}

// Count counts manufacturers matching the query's conditions.
func (r *ManufacturerRepository) Count(ctx context.Context, q repository.Query) (int, error) {
	return r.col.Count(ctx, q)
}
