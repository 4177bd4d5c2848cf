package content_test

import (
	"context"
	"testing"
	"time"

	"github.com/dieselhub/dieselhub/pkg/content"
	"github.com/dieselhub/dieselhub/pkg/observability/logger"
	"github.com/dieselhub/dieselhub/pkg/repository"
	"github.com/dieselhub/dieselhub/pkg/store/memory"
)

type tickingClock struct {
	t time.Time
}

func (c *tickingClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newPostRepo(t *testing.T) (*content.PostRepository, *tickingClock) {
	t.Helper()
	clock := &tickingClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	repo := content.NewPostRepository(memory.New(), logger.Noop(), content.WithPostClock(clock.now))
	return repo, clock
}

func seedPost(t *testing.T, repo *content.PostRepository, post *content.BlogPost) *content.BlogPost {
	t.Helper()
	if post.Title == "" {
		post.Title = "Post " + post.Slug
	}
	if post.Locale == "" {
		post.Locale = "uk"
	}
	if err := repo.Create(context.Background(), post, "editor"); err != nil {
		t.Fatalf("seed %s failed: %v", post.Slug, err)
	}
	return post
}

func TestPostRepository_CreateDefaultsToDraft(t *testing.T) {
	repo, _ := newPostRepo(t)

	post := seedPost(t, repo, &content.BlogPost{Slug: "injector-cleaning"})
	if post.Status != content.StatusDraft {
		t.Fatalf("status = %q", post.Status)
	}
	if post.PublishedAt != nil {
		t.Fatal("new post must not carry a publish timestamp")
	}
}

func TestPostRepository_CreateRejectsCallerPublishState(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	when := time.Now()
	post := &content.BlogPost{Title: "T", Slug: "s", Locale: "uk", PublishedAt: &when}
	if err := repo.Create(ctx, post, ""); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if post.PublishedAt != nil {
		t.Fatal("caller-supplied publish timestamp must be discarded")
	}

	bad := &content.BlogPost{Title: "T", Slug: "s2", Locale: "uk", Status: "pending"}
	if err := repo.Create(ctx, bad, ""); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestPostRepository_SlugIsUnique(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	seedPost(t, repo, &content.BlogPost{Slug: "common-rail-faq"})
	err := repo.Create(ctx, &content.BlogPost{Title: "Again", Slug: "common-rail-faq", Locale: "en"}, "")
	if !repository.IsDuplicateKey(err) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestPostRepository_PublishSetsTimestampOnce(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	post := seedPost(t, repo, &content.BlogPost{Slug: "injector-cleaning"})

	published, err := repo.Publish(ctx, post.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.Status != content.StatusPublished {
		t.Fatalf("status = %q", published.Status)
	}
	if published.PublishedAt == nil {
		t.Fatal("publish must set the timestamp")
	}
	first := *published.PublishedAt

	// Republish after an unpublish: the original timestamp survives.
	if _, err := repo.Unpublish(ctx, post.ID); err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	again, err := repo.Publish(ctx, post.ID)
	if err != nil {
		t.Fatalf("republish failed: %v", err)
	}
	if again.PublishedAt == nil || !again.PublishedAt.Equal(first) {
		t.Fatalf("publish timestamp changed: %v -> %v", first, again.PublishedAt)
	}
}

func TestPostRepository_UnpublishKeepsTimestamp(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	post := seedPost(t, repo, &content.BlogPost{Slug: "p"})
	if _, err := repo.Publish(ctx, post.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	draft, err := repo.Unpublish(ctx, post.ID)
	if err != nil {
		t.Fatalf("unpublish failed: %v", err)
	}
	if draft.Status != content.StatusDraft {
		t.Fatalf("status = %q", draft.Status)
	}
	if draft.PublishedAt == nil {
		t.Fatal("unpublish must not clear the publish timestamp")
	}
}

func TestPostRepository_PublishAbsentReturnsNotFound(t *testing.T) {
	repo, _ := newPostRepo(t)
	if _, err := repo.Publish(context.Background(), "665a1b2c3d4e5f6a7b8c9d0e"); err != repository.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostRepository_GetPublishedFiltersAndOrders(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	older := seedPost(t, repo, &content.BlogPost{Slug: "older", Locale: "uk"})
	newer := seedPost(t, repo, &content.BlogPost{Slug: "newer", Locale: "uk"})
	english := seedPost(t, repo, &content.BlogPost{Slug: "english", Locale: "en"})
	seedPost(t, repo, &content.BlogPost{Slug: "draft", Locale: "uk"})

	for _, id := range []string{older.ID, newer.ID, english.ID} {
		if _, err := repo.Publish(ctx, id); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}

	uk, err := repo.GetPublished(ctx, "uk")
	if err != nil {
		t.Fatalf("get published failed: %v", err)
	}
	if len(uk) != 2 {
		t.Fatalf("expected 2 uk posts, got %d", len(uk))
	}
	if uk[0].Slug != "newer" || uk[1].Slug != "older" {
		t.Fatalf("wrong order: %q, %q", uk[0].Slug, uk[1].Slug)
	}

	all, err := repo.GetPublished(ctx, "")
	if err != nil {
		t.Fatalf("get published failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 posts across locales, got %d", len(all))
	}
}

func TestPostRepository_GetByTagReturnsPublishedOnly(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	tagged := seedPost(t, repo, &content.BlogPost{Slug: "tagged", Tags: []string{"diesel", "faq"}})
	seedPost(t, repo, &content.BlogPost{Slug: "tagged-draft", Tags: []string{"diesel"}})
	if _, err := repo.Publish(ctx, tagged.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	got, err := repo.GetByTag(ctx, "diesel")
	if err != nil {
		t.Fatalf("get by tag failed: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "tagged" {
		t.Fatalf("expected only the published tagged post, got %+v", got)
	}
}

func TestPostRepository_IncrementViews(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	post := seedPost(t, repo, &content.BlogPost{Slug: "counted"})
	for i := 0; i < 3; i++ {
		if err := repo.IncrementViews(ctx, post.ID); err != nil {
			t.Fatalf("increment failed: %v", err)
		}
	}
	got, err := repo.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Views != 3 {
		t.Fatalf("views = %d", got.Views)
	}

	if err := repo.IncrementViews(ctx, "665a1b2c3d4e5f6a7b8c9d0e"); err != repository.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPostRepository_ArchiveAndSearch(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	kept := seedPost(t, repo, &content.BlogPost{Slug: "kept", Title: "Common rail diagnostics", Tags: []string{"diagnostics"}})
	gone := seedPost(t, repo, &content.BlogPost{Slug: "gone", Title: "Common rail history"})
	for _, id := range []string{kept.ID, gone.ID} {
		if _, err := repo.Publish(ctx, id); err != nil {
			t.Fatalf("publish failed: %v", err)
		}
	}
	archived, err := repo.Archive(ctx, gone.ID)
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if archived.Status != content.StatusArchived {
		t.Fatalf("status = %q", archived.Status)
	}

	got, err := repo.Search(ctx, "uk", "common rail")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(got) != 1 || got[0].Slug != "kept" {
		t.Fatalf("archived post leaked into search: %+v", got)
	}

	byTag, err := repo.Search(ctx, "uk", "diagnostics")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(byTag) != 1 {
		t.Fatalf("tag search returned %d results", len(byTag))
	}
}

func TestPostRepository_PatchCannotTouchLifecycle(t *testing.T) {
	repo, _ := newPostRepo(t)
	ctx := context.Background()

	post := seedPost(t, repo, &content.BlogPost{Slug: "stable"})
	if _, err := repo.Publish(ctx, post.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}

	title := "New title"
	updated, err := repo.Update(ctx, post.ID, content.PostPatch{Title: &title})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != content.StatusPublished {
		t.Fatalf("patch changed status to %q", updated.Status)
	}
	if updated.PublishedAt == nil {
		t.Fatal("patch cleared publish timestamp")
	}
	if updated.Title != title {
		t.Fatalf("title = %q", updated.Title)
	}
}
