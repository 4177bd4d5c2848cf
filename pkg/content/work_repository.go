package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
	"github.com/dieselhub/dieselhub/pkg/repository"
)

// WorkRepository specializes the generic collection for completed works:
// reference filters, published-only reads and the lifecycle helpers.
type WorkRepository struct {
	col *repository.Collection[Work, *Work]
	now func() time.Time
}

// WorkRepositoryOption configures a WorkRepository.
type WorkRepositoryOption func(*WorkRepository)

// WithWorkClock overrides the publish-timestamp source. Intended for tests.
func WithWorkClock(now func() time.Time) WorkRepositoryOption {
	return func(r *WorkRepository) { r.now = now }
}

// NewWorkRepository creates the repository.
func NewWorkRepository(store repository.Store, log logger.Logger, opts ...WorkRepositoryOption) *WorkRepository {
	r := &WorkRepository{
		col: repository.NewCollection[Work, *Work](CollectionWorks, store, log),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create persists a new work. New works start as drafts unless the caller
// sets a valid status; PublishedAt is never accepted from the caller.
func (r *WorkRepository) Create(ctx context.Context, work *Work, actorID string) error {
	if work.Title == "" {
		return fmt.Errorf("work title is required")
	}
	if work.Vehicle.Make == "" || work.Vehicle.Model == "" {
		return fmt.Errorf("work vehicle make and model are required")
	}
	if work.Status == "" {
		work.Status = StatusDraft
	}
	if !work.Status.Valid() {
		return fmt.Errorf("invalid work status %q", work.Status)
	}
	work.PublishedAt = nil
	return r.col.Create(ctx, work, actorID)
}

// GetByID returns the work or (nil, nil) when absent.
func (r *WorkRepository) GetByID(ctx context.Context, id string) (*Work, error) {
	return r.col.GetByID(ctx, id)
}

// GetAll returns all works matching the query.
func (r *WorkRepository) GetAll(ctx context.Context, q repository.Query) ([]*Work, error) {
	return r.col.GetAll(ctx, q)
}

// GetPublished returns published works for a locale, newest publish first. An
// empty locale returns every locale.
func (r *WorkRepository) GetPublished(ctx context.Context, locale string) ([]*Work, error) {
	q := repository.NewQuery().
		Where("status", repository.OpEqual, string(StatusPublished)).
		OrderBy("publishedAt", repository.SortDesc)
	if locale != "" {
		q = q.Where("locale", repository.OpEqual, locale)
	}
	return r.col.GetAll(ctx, q)
}

// GetByManufacturer returns published works involving the manufacturer.
func (r *WorkRepository) GetByManufacturer(ctx context.Context, manufacturerID string) ([]*Work, error) {
	q := repository.NewQuery().
		Where("manufacturerId", repository.OpEqual, manufacturerID).
		Where("status", repository.OpEqual, string(StatusPublished)).
		OrderBy("publishedAt", repository.SortDesc)
	return r.col.GetAll(ctx, q)
}

// GetByInjector returns published works that used the injector.
func (r *WorkRepository) GetByInjector(ctx context.Context, injectorID string) ([]*Work, error) {
	q := repository.NewQuery().
		Where("injectorIds", repository.OpContains, injectorID).
		Where("status", repository.OpEqual, string(StatusPublished)).
		OrderBy("publishedAt", repository.SortDesc)
	return r.col.GetAll(ctx, q)
}

// GetByVehicle returns published works on a vehicle make, optionally narrowed
// to a model.
func (r *WorkRepository) GetByVehicle(ctx context.Context, vehicleMake, vehicleModel string) ([]*Work, error) {
	q := repository.NewQuery().
		Where("vehicle.make", repository.OpEqual, vehicleMake).
		Where("status", repository.OpEqual, string(StatusPublished)).
		OrderBy("publishedAt", repository.SortDesc)
	if vehicleModel != "" {
		q = q.Where("vehicle.model", repository.OpEqual, vehicleModel)
	}
	return r.col.GetAll(ctx, q)
}

// GetByTechnician returns all works, any status, by a technician. Newest work
// date first.
func (r *WorkRepository) GetByTechnician(ctx context.Context, technicianID string) ([]*Work, error) {
	q := repository.NewQuery().
		Where("technicianId", repository.OpEqual, technicianID).
		OrderBy("workDate", repository.SortDesc)
	return r.col.GetAll(ctx, q)
}

// GetPaginated returns one page of works.
func (r *WorkRepository) GetPaginated(ctx context.Context, pageSize int, q repository.Query) (repository.Page[Work], error) {
	return r.col.GetPaginated(ctx, pageSize, q)
}

// Update applies a partial update. Lifecycle fields are not reachable through
// WorkPatch.
func (r *WorkRepository) Update(ctx context.Context, id string, patch WorkPatch) (*Work, error) {
	return r.col.Update(ctx, id, patch)
}

// Publish moves the work to published. The publish timestamp is set only on
// the first publish; republishing keeps the original time.
func (r *WorkRepository) Publish(ctx context.Context, id string) (*Work, error) {
	work, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if work == nil {
		return nil, repository.ErrNotFound
	}

	change := struct {
		Status      Status     `bson:"status"`
		PublishedAt *time.Time `bson:"publishedAt,omitempty"`
	}{Status: StatusPublished}
	if work.PublishedAt == nil {
		now := r.now().UTC().Truncate(time.Millisecond)
		change.PublishedAt = &now
	}
	return r.col.Update(ctx, id, change)
}

// Unpublish moves the work back to draft, keeping its publish timestamp.
func (r *WorkRepository) Unpublish(ctx context.Context, id string) (*Work, error) {
	return r.setStatus(ctx, id, StatusDraft)
}

// Archive moves the work to archived.
func (r *WorkRepository) Archive(ctx context.Context, id string) (*Work, error) {
	return r.setStatus(ctx, id, StatusArchived)
}

func (r *WorkRepository) setStatus(ctx context.Context, id string, status Status) (*Work, error) {
	change := struct {
		Status Status `bson:"status"`
	}{Status: status}
	return r.col.Update(ctx, id, change)
}

// Delete removes a work.
func (r *WorkRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

// Exists reports whether the work is stored.
func (r *WorkRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.col.Exists(ctx, id)
}

// Count counts works matching the query's conditions.
func (r *WorkRepository) Count(ctx context.Context, q repository.Query) (int, error) {
	return r.col.Count(ctx, q)
}

// Search filters published works client-side on substring containment over
// title, vehicle make/model, services and tags.
func (r *WorkRepository) Search(ctx context.Context, locale, term string) ([]*Work, error) {
	published, err := r.GetPublished(ctx, locale)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return published, nil
	}

	matched := make([]*Work, 0)
	for _, work := range published {
		if workMatches(work, needle) {
			matched = append(matched, work)
		}
	}
	return matched, nil
}

func workMatches(work *Work, needle string) bool {
	if strings.Contains(strings.ToLower(work.Title), needle) ||
		strings.Contains(strings.ToLower(work.Vehicle.Make), needle) ||
		strings.Contains(strings.ToLower(work.Vehicle.Model), needle) {
		return true
	}
	for _, svc := range work.Services {
		if strings.Contains(strings.ToLower(svc), needle) {
			return true
		}
	}
	for _, tag := range work.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
