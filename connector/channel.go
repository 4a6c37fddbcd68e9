package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/MaleyDenis/infoBro/config"
	"github.com/MaleyDenis/infoBro/model"
)

// ChannelConnector polls a public messaging channel through a JSON mirror
// endpoint that exposes recent messages.
type ChannelConnector struct {
	name       string
	channelURL string
	apiURL     string
	limit      int
	userAgent  string
	client     *http.Client
}

// channelMessage is the raw record shape yielded by Fetch.
type channelMessage struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
	Date  string `json:"date"`
}

type channelPayload struct {
	Messages []channelMessage `json:"messages"`
}

func NewChannel(src config.ChannelSource, settings config.HTTPSettings) *ChannelConnector {
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &ChannelConnector{
		name:       src.Name,
		channelURL: src.URL,
		apiURL:     src.APIURL,
		limit:      settings.Limit,
		userAgent:  settings.UserAgent,
		client:     &http.Client{Timeout: timeout},
	}
}

func (c *ChannelConnector) ID() string                   { return connectorID(model.SourceChannel, c.name) }
func (c *ChannelConnector) SourceType() model.SourceType { return model.SourceChannel }
func (c *ChannelConnector) SourceID() string             { return c.name }

func (c *ChannelConnector) Fetch(ctx context.Context) (<-chan Record, error) {
	endpoint := c.apiURL
	if c.limit > 0 {
		endpoint = fmt.Sprintf("%s?limit=%d", c.apiURL, c.limit)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for channel %s: %w", c.name, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w: %w", c.name, model.ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch channel %s: %w: unexpected status %d", c.name, model.ErrSourceUnreachable, resp.StatusCode)
	}

	var payload channelPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("fetch channel %s: %w: %w", c.name, model.ErrSourceUnreachable, err)
	}

	records := make(chan Record)
	go func() {
		defer close(records)
		for _, msg := range payload.Messages {
			select {
			case records <- Record{Data: msg}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return records, nil
}

func (c *ChannelConnector) Normalize(data any) (model.NewsItem, error) {
	msg, ok := data.(channelMessage)
	if !ok {
		return model.NewsItem{}, fmt.Errorf("%w: unexpected record type %T", model.ErrMalformedRecord, data)
	}
	if msg.ID == "" || msg.Text == "" {
		return model.NewsItem{}, fmt.Errorf("%w: channel message has no id or text", model.ErrMalformedRecord)
	}

	// Messages rarely carry a standalone link; fall back to a stable
	// per-message URL under the channel page.
	msgURL := msg.URL
	if msgURL == "" {
		msgURL = fmt.Sprintf("%s/%s", c.channelURL, msg.ID)
	}

	title := msg.Title
	if title == "" {
		title = makePreview(msg.Text, 80)
	}

	published := time.Now().UTC()
	if msg.Date != "" {
		if parsed, ok := parseMessageDate(msg.Date); ok {
			published = parsed
		} else {
			log.Printf("Channel %s: unparseable message date %q, using ingestion time", c.name, msg.Date)
		}
	}

	return model.NewsItem{
		ID:             model.ItemID(model.SourceChannel, c.name, msgURL),
		Title:          title,
		Content:        msg.Text,
		ContentPreview: makePreview(msg.Text, 150),
		SourceType:     model.SourceChannel,
		SourceID:       c.name,
		SourceName:     c.name,
		SourceURL:      c.channelURL,
		URL:            msgURL,
		PublishedAt:    published,
	}, nil
}

// messageDateLayouts covers the formats mirror endpoints emit besides
// Unix seconds.
var messageDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func parseMessageDate(raw string) (time.Time, bool) {
	for _, layout := range messageDateLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.UTC(), true
		}
	}
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil && secs > 0 {
		return time.Unix(secs, 0).UTC(), true
	}
	return time.Time{}, false
}
