package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
	"github.com/dieselhub/dieselhub/pkg/repository"
)

// PostRepository specializes the generic collection for blog posts: slug
// lookups, published-only reads, the lifecycle helpers and a view counter.
type PostRepository struct {
	col *repository.Collection[BlogPost, *BlogPost]
	now func() time.Time
}

// PostRepositoryOption configures a PostRepository.
type PostRepositoryOption func(*PostRepository)

// WithPostClock overrides the publish-timestamp source. Intended for tests.
func WithPostClock(now func() time.Time) PostRepositoryOption {
	return func(r *PostRepository) { r.now = now }
}

// NewPostRepository creates the repository.
func NewPostRepository(store repository.Store, log logger.Logger, opts ...PostRepositoryOption) *PostRepository {
	r := &PostRepository{
		col: repository.NewCollection[BlogPost, *BlogPost](CollectionPosts, store, log),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create persists a new post after checking the slug is free. New posts start
// as drafts unless the caller sets a valid status; PublishedAt is never
// accepted from the caller.
func (r *PostRepository) Create(ctx context.Context, post *BlogPost, actorID string) error {
	if post.Title == "" {
		return fmt.Errorf("post title is required")
	}
	if post.Slug == "" {
		return fmt.Errorf("post slug is required")
	}
	if post.Status == "" {
		post.Status = StatusDraft
	}
	if !post.Status.Valid() {
		return fmt.Errorf("invalid post status %q", post.Status)
	}
	post.PublishedAt = nil
	if existing, err := r.GetBySlug(ctx, post.Slug); err != nil {
		return err
	} else if existing != nil {
		return &repository.DuplicateKeyError{Collection: CollectionPosts, Field: "slug", Value: post.Slug}
	}
	return r.col.Create(ctx, post, actorID)
}

// GetByID returns the post or (nil, nil) when absent.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*BlogPost, error) {
	return r.col.GetByID(ctx, id)
}

// GetBySlug returns the post with the given slug, or (nil, nil).
func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	q := repository.NewQuery().Where("slug", repository.OpEqual, slug)
	return r.col.GetFirst(ctx, q)
}

// GetAll returns all posts matching the query.
func (r *PostRepository) GetAll(ctx context.Context, q repository.Query) ([]*BlogPost, error) {
	return r.col.GetAll(ctx, q)
}

// GetPublished returns published posts for a locale, newest first. An empty
// locale returns every locale.
func (r *PostRepository) GetPublished(ctx context.Context, locale string) ([]*BlogPost, error) {
	q := repository.NewQuery().
		Where("status", repository.OpEqual, string(StatusPublished)).
		OrderBy("publishedAt", repository.SortDesc)
	if locale != "" {
		q = q.Where("locale", repository.OpEqual, locale)
	}
	return r.col.GetAll(ctx, q)
}

// GetByTag returns published posts carrying the tag, newest first.
func (r *PostRepository) GetByTag(ctx context.Context, tag string) ([]*BlogPost, error) {
	q := repository.NewQuery().
		Where("tags", repository.OpContains, tag).
		Where("status", repository.OpEqual, string(StatusPublished)).
		OrderBy("publishedAt", repository.SortDesc)
	return r.col.GetAll(ctx, q)
}

// GetPaginated returns one page of posts.
func (r *PostRepository) GetPaginated(ctx context.Context, pageSize int, q repository.Query) (repository.Page[BlogPost], error) {
	return r.col.GetPaginated(ctx, pageSize, q)
}

// Update applies a partial update, re-running the slug check when the slug
// changes. Lifecycle fields are not reachable through PostPatch.
func (r *PostRepository) Update(ctx context.Context, id string, patch PostPatch) (*BlogPost, error) {
	if patch.Slug != nil {
		existing, err := r.GetBySlug(ctx, *patch.Slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, &repository.DuplicateKeyError{Collection: CollectionPosts, Field: "slug", Value: *patch.Slug}
		}
	}
	return r.col.Update(ctx, id, patch)
}

// Publish moves the post to published. The publish timestamp is set only on
// the first publish; republishing keeps the original time.
func (r *PostRepository) Publish(ctx context.Context, id string) (*BlogPost, error) {
	post, err := r.col.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, repository.ErrNotFound
	}

	change := struct {
		Status      Status     `bson:"status"`
		PublishedAt *time.Time `bson:"publishedAt,omitempty"`
	}{Status: StatusPublished}
	if post.PublishedAt == nil {
		now := r.now().UTC().Truncate(time.Millisecond)
		change.PublishedAt = &now
	}
	return r.col.Update(ctx, id, change)
}

// Unpublish moves the post back to draft, keeping its publish timestamp.
func (r *PostRepository) Unpublish(ctx context.Context, id string) (*BlogPost, error) {
	return r.setStatus(ctx, id, StatusDraft)
}

// Archive moves the post to archived.
func (r *PostRepository) Archive(ctx context.Context, id string) (*BlogPost, error) {
	return r.setStatus(ctx, id, StatusArchived)
}

func (r *PostRepository) setStatus(ctx context.Context, id string, status Status) (*BlogPost, error) {
	change := struct {
		Status Status `bson:"status"`
	}{Status: status}
	return r.col.Update(ctx, id, change)
}

// IncrementViews bumps the view counter by one. Read-modify-write; concurrent
// bumps can lose increments, which is acceptable for a display counter.
func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	post, err := r.col.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return repository.ErrNotFound
	}
	change := struct {
		Views int `bson:"views"`
	}{Views: post.Views + 1}
	_, err = r.col.Update(ctx, id, change)
	return err
}

// Delete removes a post.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.col.Delete(ctx, id)
}

// Exists reports whether the post is stored.
func (r *PostRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.col.Exists(ctx, id)
}

// Count counts posts matching the query's conditions.
func (r *PostRepository) Count(ctx context.Context, q repository.Query) (int, error) {
	return r.col.Count(ctx, q)
}

// Search filters published posts client-side on substring containment over
// title, excerpt, tags and category.
func (r *PostRepository) Search(ctx context.Context, locale, term string) ([]*BlogPost, error) {
	published, err := r.GetPublished(ctx, locale)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" {
		return published, nil
	}

	matched := make([]*BlogPost, 0)
	for _, post := range published {
		if postMatches(post, needle) {
			matched = append(matched, post)
		}
	}
	return matched, nil
}

func postMatches(post *BlogPost, needle string) bool {
	if strings.Contains(strings.ToLower(post.Title), needle) ||
		strings.Contains(strings.ToLower(post.Excerpt), needle) ||
		strings.Contains(strings.ToLower(post.Category), needle) {
		return true
	}
	for _, tag := range post.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
