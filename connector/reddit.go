package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/MaleyDenis/infoBro/config"
	"github.com/MaleyDenis/infoBro/model"
)

const defaultRedditBaseURL = "https://www.reddit.com"

// RedditConnector polls one subreddit through Reddit's public listing
// JSON endpoint. No authentication; a browser-like User-Agent avoids 429s.
type RedditConnector struct {
	subreddit string
	sourceURL string
	limit     int
	sort      string
	userAgent string
	baseURL   string
	client    *http.Client
}

// redditPost is the raw record shape yielded by Fetch.
type redditPost struct {
	ID        string  `json:"id"`
	Subreddit string  `json:"subreddit"`
	Title     string  `json:"title"`
	Selftext  string  `json:"selftext"`
	URL       string  `json:"url"`
	Permalink string  `json:"permalink"`
	Created   float64 `json:"created_utc"`
	IsSelf    bool    `json:"is_self"`
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewReddit(src config.SubredditSource, settings config.RedditSettings) *RedditConnector {
	limit := settings.Limit
	if limit <= 0 {
		limit = 25
	}
	sort := settings.Sort
	if sort == "" {
		sort = "hot"
	}
	userAgent := settings.UserAgent
	if userAgent == "" {
		userAgent = "Mozilla/5.0 (compatible; InfoBroNewsAggregator/1.0)"
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &RedditConnector{
		subreddit: src.Name,
		sourceURL: src.URL,
		limit:     limit,
		sort:      sort,
		userAgent: userAgent,
		baseURL:   defaultRedditBaseURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (c *RedditConnector) ID() string                   { return connectorID(model.SourceReddit, c.subreddit) }
func (c *RedditConnector) SourceType() model.SourceType { return model.SourceReddit }
func (c *RedditConnector) SourceID() string             { return c.subreddit }

func (c *RedditConnector) Fetch(ctx context.Context) (<-chan Record, error) {
	listingURL := fmt.Sprintf("%s/r/%s/%s.json?limit=%d",
		c.baseURL, url.PathEscape(c.subreddit), c.sort, c.limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for r/%s: %w", c.subreddit, err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w: %w", c.subreddit, model.ErrSourceUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch r/%s: %w: unexpected status %d", c.subreddit, model.ErrSourceUnreachable, resp.StatusCode)
	}

	var listing redditListing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w: %w", c.subreddit, model.ErrSourceUnreachable, err)
	}

	records := make(chan Record)
	go func() {
		defer close(records)
		for _, child := range listing.Data.Children {
			select {
			case records <- Record{Data: child.Data}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return records, nil
}

func (c *RedditConnector) Normalize(data any) (model.NewsItem, error) {
	post, ok := data.(redditPost)
	if !ok {
		return model.NewsItem{}, fmt.Errorf("%w: unexpected record type %T", model.ErrMalformedRecord, data)
	}
	if post.Title == "" || post.Permalink == "" {
		return model.NewsItem{}, fmt.Errorf("%w: post %q has no title or permalink", model.ErrMalformedRecord, post.ID)
	}

	content := post.Selftext
	if content == "" && !post.IsSelf {
		content = fmt.Sprintf("External link: %s", post.URL)
	}

	postURL := defaultRedditBaseURL + post.Permalink

	return model.NewsItem{
		ID:             model.ItemID(model.SourceReddit, c.subreddit, postURL),
		Title:          post.Title,
		Content:        content,
		ContentPreview: makePreview(content, 150),
		SourceType:     model.SourceReddit,
		SourceID:       c.subreddit,
		SourceName:     "r/" + c.subreddit,
		SourceURL:      c.sourceURL,
		URL:            postURL,
		PublishedAt:    time.Unix(int64(post.Created), 0).UTC(),
	}, nil
}
