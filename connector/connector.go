package connector

import (
	"context"

	"github.com/MaleyDenis/infoBro/model"
)

// Record is one element of a connector's fetch stream. Either Data holds
// a raw source payload, or Err reports a hard mid-stream failure that
// aborts the run.
type Record struct {
	Data any
	Err  error
}

// Connector fetches raw records from one external source and normalizes
// them into NewsItems. Connectors never write to the store; draining the
// stream and persisting items is the coordinator's job, which keeps every
// connector testable with a fake upstream.
type Connector interface {
	// ID is the registry key, e.g. "rss:hackernews".
	ID() string

	SourceType() model.SourceType

	// SourceID names the sub-source within the type, e.g. "hackernews".
	SourceID() string

	// Fetch starts one poll of the source and returns a finite stream of
	// raw records. The stream is lazy and not restartable; the channel is
	// closed when the source is exhausted. An immediate error means the
	// source could not be reached at all.
	Fetch(ctx context.Context) (<-chan Record, error)

	// Normalize converts one raw record into a NewsItem. It is
	// deterministic: the same record always produces the same item ID.
	// A record that cannot be normalized returns model.ErrMalformedRecord
	// and is skipped without aborting the run.
	Normalize(data any) (model.NewsItem, error)
}

// connectorID builds the registry key for a source.
func connectorID(sourceType model.SourceType, sourceID string) string {
	return string(sourceType) + ":" + sourceID
}

// makePreview truncates content for list views. Cuts on runes so
// multi-byte text is never split mid-character.
func makePreview(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit]) + "..."
}
