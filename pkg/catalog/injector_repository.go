package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
	"github.com/dieselhub/dieselhub/pkg/repository"
)

// InjectorRepository specializes the generic collection for injectors:
// slug/part-number lookups, manufacturer and tag filters, and in-memory
// search over the active subset.
type InjectorRepository struct {
	col *repository.Collection[Injector, *Injector]
}

// NewInjectorRepository creates the repository.
func NewInjectorRepository(store repository.Store, log logger.Logger, opts ...repository.CollectionOption) *InjectorRepository {
	return &InjectorRepository{
		col: repository.NewCollection[Injector, *Injector](CollectionInjectors, store, log, opts...),
	}
}

// Create persists a new injector after checking that both the slug and the
// part number are free. Advisory check; the store's unique indexes are the
// authoritative guard.
func (r *InjectorRepository) Create(ctx context.Context, inj *Injector, actorID string) error {
	if inj.Name == "" {
		return fmt.Errorf("injector name is required")
	}
	if inj.PartNumber == "" {
		return fmt.Errorf("injector part number is required")
	}
	if inj.Slug == "" {
		return fmt.Errorf("injector slug is required")
	}
	if existing, err := r.GetBySlug(ctx, inj.Slug); err != nil {
		return err
	} else if existing != nil {
		return &repository.DuplicateKeyError{Collection: CollectionInjectors, Field: "slug", Value: inj.Slug}
	}
	if existing, err := r.GetByPartNumber(ctx, inj.PartNumber); err != nil {
		return err
	} else if existing != nil {
		return &repository.DuplicateKeyError{Collection: CollectionInjectors, Field: "partNumber", Value: inj.PartNumber}
	}
	return r.col.Create(ctx, inj, actorID)
}

// GetByID returns the injector or (nil, nil) when absent.
func (r *InjectorRepository) GetByID(ctx context.Context, id string) (*Injector, error) {
	return r.col.GetByID(ctx, id)
}

// GetBySlug returns the injector with the given slug, or (nil, nil).
func (r *InjectorRepository) GetBySlug(ctx context.Context, slug string) (*Injector, error) {
	q := repository.NewQuery().Where("slug", repository.OpEqual, slug)
	return r.col.GetFirst(ctx, q)
}

// GetByPartNumber returns the injector with the given part number, or
// (nil, nil).
func (r *InjectorRepository) GetByPartNumber(ctx context.Context, partNumber string) (*Injector, error) {
	q := repository.NewQuery().Where("partNumber", repository.OpEqual, partNumber)
	return r.col.GetFirst(ctx, q)
}

// GetAll returns all injectors matching the query.
func (r *InjectorRepository) GetAll(ctx context.Context, q repository.Query) ([]*Injector, error) {
	return r.col.GetAll(ctx, q)
}

// GetActive returns active injectors ordered by name.
func (r *InjectorRepository) GetActive(ctx context.Context) ([]*Injector, error) {
	q := repository.NewQuery().
		Where("active", repository.OpEqual, true).
		OrderBy("name", repository.SortAsc)
	return r.col.GetAll(ctx, q)
}

// GetByManufacturer returns the active injectors of one manufacturer.
func (r *InjectorRepository) GetByManufacturer(ctx context.Context, manufacturerID string) ([]*Injector, error) {
	q := repository.NewQuery().
		Where("manufacturerId", repository.OpEqual, manufacturerID).
		Where("active", repository.OpEqual, true).
		OrderBy("name", repository.SortAsc)
	return r.col.GetAll(ctx, q)
}

// GetByTag returns active injectors carrying the tag.
func (r *InjectorRepository) GetByTag(ctx context.Context, tag string) ([]*Injector, error) {
	q := repository.NewQuery().
		Where("tags", repository.OpContains, tag).
		Where("active", repository.OpEqual, true).
		OrderBy("name", repository.SortAsc)
	return r.col.GetAll(ctx, q)
}

// GetPaginated returns one page of injectors.
func (r *InjectorRepository) GetPaginated(ctx context.Context, pageSize int, q repository.Query) (repository.Page[Injector], error) {
	return r.col.GetPaginated(ctx, pageSize, q)
}

// Update applies a partial update, re-running the uniqueness checks when the
// slug or part number changes.
func (r *InjectorRepository) Update(ctx context.Context, id string, patch InjectorPatch) (*Injector, error) {
	if patch.Slug != nil {
		existing, err := r.GetBySlug(ctx, *patch.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, &repository.DuplicateKeyError{Collection: CollectionInjectors, Field: "slug", Value: *patch.Slug}
		}
	}
	if patch.PartNumber != nil {
		existing, err := r.GetByPartNumber(ctx, *patch.PartNumber)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, &repository.DuplicateKeyError{Collection: CollectionInjectors, Field: "partNumber", Value: *patch.PartNumber}
		}
	}
	return r.col.Update(ctx, id, patch)
}

// Delete removes an injector.
func (r *InjectorRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

// Exists reports whether the injector is stored.
func (r *InjectorRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.col.Exists(ctx, id)
}

// Count counts injectors matching the query's conditions.
func (r *InjectorRepository) Count(ctx context.Context, q repository.Query) (int, error) {
	return r.col.Count(ctx, q)
}

// Search filters the active injectors client-side on substring containment
// over name, part number, slug, tags and compatible vehicles. A deliberate
// small-catalog tradeoff, not a text index.
func (r *InjectorRepository) Search(ctx context.Context, term string) ([]*Injector, error) {
	active, err := r.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return active, nil
	}

	matched := make([]*Injector, 0)
	for _, inj := range active {
		if injectorMatches(inj, needle) {
			matched = append(matched, inj)
		}
	}
	return matched, nil
}

func injectorMatches(inj *Injector, needle string) bool {
	if strings.Contains(strings.ToLower(inj.Name), needle) ||
		strings.Contains(strings.ToLower(inj.PartNumber), needle) ||
		strings.Contains(strings.ToLower(inj.Slug), needle) {
		return true
	}
	for _, tag := range inj.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	for _, vehicle := range inj.CompatibleVehicles {
		if strings.Contains(strings.ToLower(vehicle), needle) {
			return true
		}
	}
	return false
}
