package store

import (
	"context"

	"github.com/MaleyDenis/infoBro/model"
)

// ItemStore holds normalized items and answers filtered, paginated
// queries. Upsert is idempotent on the natural key: re-ingesting an item
// refreshes content fields and processed_at, never its identity.
type ItemStore interface {
	// Upsert stores or refreshes an item and reports whether it was a new
	// insert. Only new inserts count toward a run's processed total.
	Upsert(ctx context.Context, item model.NewsItem) (inserted bool, err error)

	// Query returns one page of the filtered feed, newest published_at
	// first with ID as the tie-break. A page beyond the last returns
	// empty items with true totals, not an error.
	Query(ctx context.Context, q model.Query) (*model.Page, error)

	// GetByID returns a single item or model.ErrNotFound.
	GetByID(ctx context.Context, id string) (*model.NewsItem, error)
}
