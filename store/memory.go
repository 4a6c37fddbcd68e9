package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MaleyDenis/infoBro/model"
)

// Memory is an in-process ItemStore keyed by natural key. Used as the
// default backend when no Mongo URI is configured, and as the test
// substrate for the query engine.
type Memory struct {
	mu    sync.RWMutex
	items map[string]model.NewsItem
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]model.NewsItem),
		now:   time.Now,
	}
}

func (m *Memory) Upsert(ctx context.Context, item model.NewsItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := item.NaturalKey()
	existing, exists := m.items[key]

	item.ProcessedAt = m.now().UTC()
	if exists {
		// Identity fields are immutable; only content fields refresh.
		item.ID = existing.ID
		item.PublishedAt = existing.PublishedAt
	}
	m.items[key] = item

	return !exists, nil
}

func (m *Memory) Query(ctx context.Context, q model.Query) (*model.Page, error) {
	m.mu.RLock()
	filtered := make([]model.NewsItem, 0, len(m.items))
	for _, item := range m.items {
		if matches(item, q) {
			filtered = append(filtered, item)
		}
	}
	m.mu.RUnlock()

	sort.Slice(filtered, func(i, j int) bool {
		if !filtered[i].PublishedAt.Equal(filtered[j].PublishedAt) {
			return filtered[i].PublishedAt.After(filtered[j].PublishedAt)
		}
		return filtered[i].ID < filtered[j].ID
	})

	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	total := len(filtered)
	start := (page - 1) * pageSize
	end := start + pageSize

	items := []model.NewsItem{}
	if start < total {
		if end > total {
			end = total
		}
		items = filtered[start:end]
	}

	return &model.Page{
		Items: items,
		Pagination: model.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: model.TotalPages(total, pageSize),
			TotalItems: total,
		},
	}, nil
}

func (m *Memory) GetByID(ctx context.Context, id string) (*model.NewsItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, item := range m.items {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, model.ErrNotFound
}

// matches applies the filters in order: type, sub-source, free text,
// date range.
func matches(item model.NewsItem, q model.Query) bool {
	if q.SourceType != "" && item.SourceType != q.SourceType {
		return false
	}
	if q.SourceID != "" && item.SourceID != q.SourceID {
		return false
	}
	if q.Text != "" {
		needle := strings.ToLower(q.Text)
		if !strings.Contains(strings.ToLower(item.Title), needle) &&
			!strings.Contains(strings.ToLower(item.Content), needle) &&
			!strings.Contains(strings.ToLower(item.ContentPreview), needle) {
			return false
		}
	}
	if q.From != nil && item.PublishedAt.Before(*q.From) {
		return false
	}
	if q.To != nil && item.PublishedAt.After(*q.To) {
		return false
	}
	return true
}
