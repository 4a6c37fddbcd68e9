package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/MaleyDenis/infoBro/model"
	"github.com/stretchr/testify/require"
)

func testItem(sourceType model.SourceType, sourceID, url, title string, published time.Time) model.NewsItem {
	return model.NewsItem{
		ID:          model.ItemID(sourceType, sourceID, url),
		Title:       title,
		Content:     "content of " + title,
		SourceType:  sourceType,
		SourceID:    sourceID,
		SourceName:  sourceID,
		URL:         url,
		PublishedAt: published,
	}
}

func TestMemory_UpsertInsertsThenRefreshes(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	item := testItem(model.SourceRSS, "hackernews", "https://example.com/1", "First", base)

	inserted, err := m.Upsert(ctx, item)
	require.NoError(t, err)
	require.True(t, inserted, "first upsert is an insert")

	// Same natural key with refreshed content.
	item.Content = "updated content"
	inserted, err = m.Upsert(ctx, item)
	require.NoError(t, err)
	require.False(t, inserted, "second upsert is an update")

	page, err := m.Query(ctx, model.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Pagination.TotalItems, "re-upsert must not duplicate")
	require.Equal(t, "updated content", page.Items[0].Content)
}

func TestMemory_UpsertKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	item := testItem(model.SourceReddit, "golang", "https://reddit.com/p/1", "Post", base)

	_, err := m.Upsert(ctx, item)
	require.NoError(t, err)

	got, err := m.GetByID(ctx, item.ID)
	require.NoError(t, err)
	firstProcessed := got.ProcessedAt

	time.Sleep(time.Millisecond)
	item.Title = "Post (edited)"
	_, err = m.Upsert(ctx, item)
	require.NoError(t, err)

	got, err = m.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, item.ID, got.ID, "identity survives refresh")
	require.Equal(t, "Post (edited)", got.Title)
	require.True(t, got.ProcessedAt.After(firstProcessed), "processed_at refreshes on update")
}

func TestMemory_QueryFilters(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	items := []model.NewsItem{
		testItem(model.SourceRSS, "hackernews", "https://example.com/1", "Go 1.25 released", base.Add(1*time.Hour)),
		testItem(model.SourceRSS, "golang-blog", "https://example.com/2", "Generics tips", base.Add(2*time.Hour)),
		testItem(model.SourceReddit, "golang", "https://reddit.com/p/1", "Go question", base.Add(3*time.Hour)),
	}
	for _, item := range items {
		_, err := m.Upsert(ctx, item)
		require.NoError(t, err)
	}

	// Type filter.
	page, err := m.Query(ctx, model.Query{SourceType: model.SourceRSS, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 2, page.Pagination.TotalItems)

	// Sub-source filter.
	page, err = m.Query(ctx, model.Query{SourceType: model.SourceRSS, SourceID: "hackernews", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Pagination.TotalItems)

	// Case-insensitive text filter over title.
	page, err = m.Query(ctx, model.Query{Text: "gENERICS", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Pagination.TotalItems)
	require.Equal(t, "Generics tips", page.Items[0].Title)

	// Text filter over content.
	page, err = m.Query(ctx, model.Query{Text: "content of go question", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 1, page.Pagination.TotalItems)

	// Inclusive date range.
	from := base.Add(2 * time.Hour)
	to := base.Add(3 * time.Hour)
	page, err = m.Query(ctx, model.Query{From: &from, To: &to, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, 2, page.Pagination.TotalItems, "range bounds are inclusive")
}

func TestMemory_QueryOrdering(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		// Two items share each timestamp to exercise the tie-break.
		item := testItem(model.SourceRSS, "hackernews",
			fmt.Sprintf("https://example.com/%d", i), fmt.Sprintf("Item %d", i),
			base.Add(time.Duration(i/2)*time.Hour))
		_, err := m.Upsert(ctx, item)
		require.NoError(t, err)
	}

	page, err := m.Query(ctx, model.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 10)

	for i := 1; i < len(page.Items); i++ {
		prev, cur := page.Items[i-1], page.Items[i]
		require.False(t, prev.PublishedAt.Before(cur.PublishedAt), "published_at must be non-increasing")
		if prev.PublishedAt.Equal(cur.PublishedAt) {
			require.Less(t, prev.ID, cur.ID, "equal timestamps order by ID ascending")
		}
	}
}

func TestMemory_PaginationLaws(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	const total = 15
	for i := 0; i < total; i++ {
		item := testItem(model.SourceRSS, "hackernews",
			fmt.Sprintf("https://example.com/%d", i), fmt.Sprintf("Item %d", i),
			base.Add(time.Duration(i)*time.Minute))
		_, err := m.Upsert(ctx, item)
		require.NoError(t, err)
	}

	const pageSize = 12
	first, err := m.Query(ctx, model.Query{Page: 1, PageSize: pageSize})
	require.NoError(t, err)
	require.Len(t, first.Items, 12)
	require.Equal(t, model.Pagination{Page: 1, PageSize: 12, TotalPages: 2, TotalItems: 15}, first.Pagination)

	second, err := m.Query(ctx, model.Query{Page: 2, PageSize: pageSize})
	require.NoError(t, err)
	require.Len(t, second.Items, 3)

	// Concatenated pages reproduce the full set without dup or loss.
	seen := make(map[string]bool)
	for _, item := range append(first.Items, second.Items...) {
		require.False(t, seen[item.ID], "no duplicates across pages")
		seen[item.ID] = true
	}
	require.Len(t, seen, total)
}

func TestMemory_QueryPageOutOfRange(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Upsert(ctx, testItem(model.SourceRSS, "hackernews", "https://example.com/1", "Only", time.Now()))
	require.NoError(t, err)

	page, err := m.Query(ctx, model.Query{Page: 5, PageSize: 10})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Equal(t, 1, page.Pagination.TotalItems, "totals stay truthful on out-of-range pages")
	require.Equal(t, 1, page.Pagination.TotalPages)
	require.Equal(t, 5, page.Pagination.Page)
}

func TestMemory_QueryEmptyStore(t *testing.T) {
	page, err := NewMemory().Query(context.Background(), model.Query{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.Equal(t, 0, page.Pagination.TotalItems)
	require.Equal(t, 1, page.Pagination.TotalPages, "empty result set still reports one page")
}

func TestMemory_GetByID(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	item := testItem(model.SourceChannel, "technews", "https://t.me/technews/1", "Message", time.Now())
	_, err := m.Upsert(ctx, item)
	require.NoError(t, err)

	got, err := m.GetByID(ctx, item.ID)
	require.NoError(t, err)
	require.Equal(t, item.Title, got.Title)

	_, err = m.GetByID(ctx, "missing")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestMemory_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	base := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	done := make(chan struct{})
	for w := 0; w < 4; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 50; i++ {
				// Half the keys collide across workers.
				url := fmt.Sprintf("https://example.com/%d", i%25)
				item := testItem(model.SourceRSS, "hackernews", url, fmt.Sprintf("Item %d-%d", w, i), base)
				_, err := m.Upsert(ctx, item)
				require.NoError(t, err)
			}
		}(w)
	}
	for w := 0; w < 4; w++ {
		<-done
	}

	page, err := m.Query(ctx, model.Query{Page: 1, PageSize: 100})
	require.NoError(t, err)
	require.Equal(t, 25, page.Pagination.TotalItems, "concurrent upserts of the same keys never duplicate")
}
