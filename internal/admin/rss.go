package admin

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/shell"
	"github.com/ANOUAR90ESS/veto7/pkg/feed"
)

const rssFetchError = "Failed to fetch feed. ensure URL is valid."

type RSSState struct {
	URL   string      `json:"url"`
	Count int         `json:"count"`
	Items []feed.Item `json:"items"`
	Error string      `json:"error,omitempty"`
}

// FetchRSS loads up to count items from url. Fetch and parse failures are kept
// as an inline error on the RSS tab as well as returned.
func (w *Workspace) FetchRSS(ctx context.Context, url string, count int) ([]feed.Item, error) {
	url = strings.TrimSpace(url)
	count = feed.ClampCount(count)

	w.mu.Lock()
	w.rss.URL = url
	w.rss.Count = count
	w.rss.Error = ""
	w.mu.Unlock()

	if w.deps.Feeds == nil {
		return nil, validationError("feed import is not configured")
	}

	items, err := w.deps.Feeds.Fetch(ctx, url, count)
	if err != nil {
		slog.Warn("error fetching feed", "url", url, "error", err)
		w.mu.Lock()
		w.rss.Items = []feed.Item{}
		w.rss.Error = rssFetchError
		w.mu.Unlock()
		return nil, err
	}

	w.mu.Lock()
	w.rss.Items = items
	w.mu.Unlock()
	return items, nil
}

func (w *Workspace) rssItem(id string) (feed.Item, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, it := range w.rss.Items {
		if it.ID == id {
			return it, nil
		}
	}
	return feed.Item{}, validationError("unknown feed item " + id)
}

// ConvertRSSToTool extracts a tool from a feed item and opens it in the tool form.
func (w *Workspace) ConvertRSSToTool(ctx context.Context, itemID string) error {
	item, err := w.rssItem(itemID)
	if err != nil {
		return err
	}
	gen, err := w.generator()
	if err != nil {
		return err
	}

	extracted, err := gen.ExtractToolFromRSS(ctx, item.Title, item.Description)
	if err != nil {
		return &shell.ActionError{Action: "Failed to convert item", Err: err}
	}

	tool := *extracted
	tool.ID = ""
	if tool.Category == "" {
		tool.Category = "News"
	}
	if tool.Price == "" {
		tool.Price = "Unknown"
	}
	if len(tool.Tags) == 0 {
		tool.Tags = []string{"RSS"}
	}
	if tool.Website == "" {
		tool.Website = item.Link
	}
	if tool.Website == "" {
		tool.Website = "#"
	}
	if tool.ImageURL == "" {
		tool.ImageURL = model.PlaceholderToolImage(tool.Name)
	}

	w.mu.Lock()
	w.toolForm = newToolForm()
	w.toolForm.Draft = tool
	w.tab = TabCreate
	w.lastSuccess = nil
	w.mu.Unlock()
	return nil
}

func (w *Workspace) extractNews(ctx context.Context, itemID string) (model.NewsArticle, error) {
	item, err := w.rssItem(itemID)
	if err != nil {
		return model.NewsArticle{}, err
	}
	gen, err := w.generator()
	if err != nil {
		return model.NewsArticle{}, err
	}

	extracted, err := gen.ExtractNewsFromRSS(ctx, item.Title, item.Description)
	if err != nil {
		return model.NewsArticle{}, &shell.ActionError{Action: "Failed to convert item", Err: err}
	}

	article := *extracted
	article.ID = ""
	if article.Title == "" {
		article.Title = item.Title
	}
	if article.Description == "" {
		article.Description = item.Description
	}
	if article.Content == "" {
		article.Content = item.Description
	}
	if article.Source == "" {
		article.Source = "RSS Feed"
	}
	if article.Category == "" {
		article.Category = "Tech News"
	}
	if item.PublishedAt != nil {
		article.Date = *item.PublishedAt
	}
	return article, nil
}

// ConvertRSSToNews extracts an article from a feed item and opens it in the news form.
func (w *Workspace) ConvertRSSToNews(ctx context.Context, itemID string) error {
	article, err := w.extractNews(ctx, itemID)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.newsForm = newNewsForm()
	w.newsForm.Draft = article
	w.tab = TabNews
	w.lastSuccess = nil
	w.mu.Unlock()
	return nil
}

func (w *Workspace) PreviewRSSNews(ctx context.Context, itemID string) (*Preview, error) {
	article, err := w.extractNews(ctx, itemID)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	out := previewNews(article, "preview-"+itemID, w.now())
	w.preview = &Preview{Kind: KindNews, News: &out}
	return w.preview, nil
}
