package connector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/MaleyDenis/infoBro/config"
	"github.com/MaleyDenis/infoBro/model"
	"github.com/mmcdole/gofeed"
)

// RSSConnector polls one feed URL and yields its entries.
type RSSConnector struct {
	name    string
	feedURL string
	parser  *gofeed.Parser
}

func NewRSS(src config.FeedSource, settings config.HTTPSettings) *RSSConnector {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: timeout}
	if settings.UserAgent != "" {
		parser.UserAgent = settings.UserAgent
	}

	return &RSSConnector{
		name:    src.Name,
		feedURL: src.URL,
		parser:  parser,
	}
}

func (c *RSSConnector) ID() string                   { return connectorID(model.SourceRSS, c.name) }
func (c *RSSConnector) SourceType() model.SourceType { return model.SourceRSS }
func (c *RSSConnector) SourceID() string             { return c.name }

func (c *RSSConnector) Fetch(ctx context.Context) (<-chan Record, error) {
	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w: %w", c.name, model.ErrSourceUnreachable, err)
	}

	records := make(chan Record)
	go func() {
		defer close(records)
		for _, item := range feed.Items {
			select {
			case records <- Record{Data: item}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return records, nil
}

func (c *RSSConnector) Normalize(data any) (model.NewsItem, error) {
	entry, ok := data.(*gofeed.Item)
	if !ok {
		return model.NewsItem{}, fmt.Errorf("%w: unexpected record type %T", model.ErrMalformedRecord, data)
	}
	if entry.Title == "" || entry.Link == "" {
		return model.NewsItem{}, fmt.Errorf("%w: feed entry has no title or link", model.ErrMalformedRecord)
	}

	content := entry.Content
	if content == "" {
		content = entry.Description
	}

	published := time.Now().UTC()
	if entry.PublishedParsed != nil {
		published = entry.PublishedParsed.UTC()
	} else if entry.UpdatedParsed != nil {
		published = entry.UpdatedParsed.UTC()
	}

	return model.NewsItem{
		ID:             model.ItemID(model.SourceRSS, c.name, entry.Link),
		Title:          entry.Title,
		Content:        content,
		ContentPreview: makePreview(content, 150),
		SourceType:     model.SourceRSS,
		SourceID:       c.name,
		SourceName:     c.name,
		SourceURL:      c.feedURL,
		URL:            entry.Link,
		PublishedAt:    published,
	}, nil
}
