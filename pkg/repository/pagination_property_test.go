package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dieselhub/dieselhub/pkg/observability/logger"
	"github.com/dieselhub/dieselhub/pkg/repository"
	"github.com/dieselhub/dieselhub/pkg/store/memory"
)

// Walking a paginated scan to exhaustion must yield every matching record
// exactly once, in sort order, for any collection size and page size.
func TestProperty_PaginationCompleteness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("scan yields each record exactly once in order", prop.ForAll(
		func(total int, pageSize int) bool {
			ctx := context.Background()
			store := memory.New()
			col := repository.NewCollection[part, *part]("parts", store, logger.Noop())

			for i := 0; i < total; i++ {
				p := &part{Name: fmt.Sprintf("part-%03d", i), Order: i}
				if err := col.Create(ctx, p, ""); err != nil {
					t.Logf("create failed: %v", err)
					return false
				}
			}

			q := repository.NewQuery().OrderBy("order", repository.SortAsc)
			seen := make([]int, 0, total)
			cursor := repository.Cursor("")
			for pages := 0; ; pages++ {
				if pages > total+1 {
					t.Log("scan did not terminate")
					return false
				}
				query := q
				if cursor != "" {
					query = query.After(cursor)
				}
				page, err := col.GetPaginated(ctx, pageSize, query)
				if err != nil {
					t.Logf("paginate failed: %v", err)
					return false
				}
				for _, item := range page.Items {
					seen = append(seen, item.Order)
				}
				if !page.HasMore {
					break
				}
				cursor = page.NextCursor
			}

			if len(seen) != total {
				t.Logf("saw %d records, want %d", len(seen), total)
				return false
			}
			for i, order := range seen {
				if order != i {
					t.Logf("position %d holds order %d", i, order)
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 40),
		gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}

// The boundary case: exactly pageSize matches means no further page, one
// extra match means exactly one more.
func TestProperty_HasMoreBoundary(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 30
	properties := gopter.NewProperties(parameters)

	properties.Property("hasMore flips exactly at pageSize+1", prop.ForAll(
		func(pageSize int, extra bool) bool {
			ctx := context.Background()
			store := memory.New()
			col := repository.NewCollection[part, *part]("parts", store, logger.Noop())

			total := pageSize
			if extra {
				total++
			}
			for i := 0; i < total; i++ {
				if err := col.Create(ctx, &part{Name: "p", Order: i}, ""); err != nil {
					t.Logf("create failed: %v", err)
					return false
				}
			}

			q := repository.NewQuery().OrderBy("order", repository.SortAsc)
			page, err := col.GetPaginated(ctx, pageSize, q)
			if err != nil {
				t.Logf("paginate failed: %v", err)
				return false
			}
			if page.HasMore != extra {
				t.Logf("hasMore = %v, want %v", page.HasMore, extra)
				return false
			}
			if !extra {
				return len(page.Items) == total && page.NextCursor == ""
			}
			next, err := col.GetPaginated(ctx, pageSize, q.After(page.NextCursor))
			if err != nil {
				t.Logf("second page failed: %v", err)
				return false
			}
			return len(next.Items) == 1 && !next.HasMore
		},
		gen.IntRange(1, 12),
		gen.Bool(),
	))

	properties.TestingRun(t)
}
