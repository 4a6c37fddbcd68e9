package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceType identifies the kind of external source an item came from.
type SourceType string

const (
	SourceReddit  SourceType = "reddit"
	SourceChannel SourceType = "channel"
	SourceRSS     SourceType = "rss"
)

// NewsItem is a normalized item in the aggregated feed. Identity fields
// (ID, SourceType, SourceID, URL) never change once stored; content
// fields may be refreshed by later runs that see the same natural key.
type NewsItem struct {
	ID             string     `json:"id" bson:"_id"`
	Title          string     `json:"title" bson:"title"`
	Content        string     `json:"content,omitempty" bson:"content,omitempty"`
	ContentPreview string     `json:"content_preview,omitempty" bson:"content_preview,omitempty"`
	SourceType     SourceType `json:"source_type" bson:"source_type"`
	SourceID       string     `json:"source_id" bson:"source_id"`
	SourceName     string     `json:"source_name" bson:"source_name"`
	SourceURL      string     `json:"source_url" bson:"source_url"`
	URL            string     `json:"url" bson:"url"`
	PublishedAt    time.Time  `json:"published_at" bson:"published_at"`
	ProcessedAt    time.Time  `json:"processed_at" bson:"processed_at"`
}

// NaturalKey is the deduplication key: re-ingesting an item with the same
// key updates content fields instead of creating a second row.
func (n NewsItem) NaturalKey() string {
	return NaturalKey(n.SourceType, n.SourceID, n.URL)
}

func NaturalKey(sourceType SourceType, sourceID, url string) string {
	return fmt.Sprintf("%s|%s|%s", sourceType, sourceID, url)
}

// ItemID derives a stable identifier from the natural key, so normalizing
// the same raw record always yields the same ID.
func ItemID(sourceType SourceType, sourceID, url string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(NaturalKey(sourceType, sourceID, url))).String()
}

// RunStatus is the lifecycle state of one connector execution.
type RunStatus string

const (
	RunPending   RunStatus = "pending"
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// Terminal reports whether the status is final.
func (s RunStatus) Terminal() bool {
	return s == RunSucceeded || s == RunFailed
}

// Run is one execution of a connector. Owned by the coordinator and
// immutable once it reaches a terminal status.
type Run struct {
	ConnectorID string     `json:"connector_id"`
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Processed   int        `json:"processed_count"`
	Error       string     `json:"error,omitempty"`
}

// RunResult is the per-connector entry of a run-all summary.
type RunResult struct {
	Status    RunStatus `json:"status"`
	Processed int       `json:"processed"`
	Message   string    `json:"message,omitempty"`
}

// Query selects and pages the aggregated feed. Zero values mean
// "no filter". Page is 1-based.
type Query struct {
	SourceType SourceType
	SourceID   string
	Text       string
	From       *time.Time
	To         *time.Time
	Page       int
	PageSize   int
}

// Pagination describes the slice a Page holds relative to the full
// filtered result set.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalItems int `json:"total_items"`
}

// Page is one page of query results, newest first.
type Page struct {
	Items      []NewsItem `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// TotalPages computes ceil(totalItems/pageSize), never less than 1 so an
// empty result set still reports a single empty page.
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (totalItems + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}
