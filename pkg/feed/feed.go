package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	DefaultURL   = "https://feeds.feedburner.com/TechCrunch/"
	DefaultCount = 5
	MaxCount     = 50
)

// maxDocumentBytes caps how much of a feed response is read.
var maxDocumentBytes int64 = 5 << 20

var ErrMalformed = errors.New("malformed feed")

type Item struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Link        string     `json:"link,omitempty"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

// Client fetches RSS/Atom feeds, optionally through a CORS proxy that wraps the
// document as {"contents": "..."}.
type Client struct {
	proxyURL   string
	httpClient *http.Client
}

func NewClient(proxyURL string) *Client {
	return &Client{
		proxyURL:   proxyURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ClampCount bounds an import count to [1, MaxCount].
func ClampCount(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxCount {
		return MaxCount
	}
	return n
}

func (c *Client) Fetch(ctx context.Context, feedURL string, count int) ([]Item, error) {
	if _, err := url.ParseRequestURI(feedURL); err != nil {
		return nil, fmt.Errorf("feed url %q: %w", feedURL, ErrMalformed)
	}

	raw, err := c.download(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	return Parse(raw, count)
}

// Parse extracts up to count items from a feed document.
func Parse(raw string, count int) ([]Item, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("empty document: %w", ErrMalformed)
	}

	parsed, err := gofeed.NewParser().ParseString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	count = ClampCount(count)
	items := make([]Item, 0, count)
	for i, it := range parsed.Items {
		if i >= count {
			break
		}
		items = append(items, Item{
			ID:          fmt.Sprintf("rss-%d", i),
			Title:       strings.TrimSpace(it.Title),
			Description: strings.TrimSpace(it.Description),
			Link:        it.Link,
			PublishedAt: it.PublishedParsed,
		})
	}

	return items, nil
}

func (c *Client) download(ctx context.Context, feedURL string) (string, error) {
	target := feedURL
	if c.proxyURL != "" {
		target = c.proxyURL + "?url=" + url.QueryEscape(feedURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("feed fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("feed fetch: status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxDocumentBytes)
	if c.proxyURL == "" {
		raw, err := io.ReadAll(body)
		if err != nil {
			return "", fmt.Errorf("feed read: %w", err)
		}
		return string(raw), nil
	}

	var wrapped struct {
		Contents string `json:"contents"`
	}
	if err := json.NewDecoder(body).Decode(&wrapped); err != nil {
		return "", fmt.Errorf("feed proxy decode: %w", err)
	}
	return wrapped.Contents, nil
}
