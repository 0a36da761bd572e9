package admin

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ANOUAR90ESS/veto7/internal/metrics"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/shell"
)

// GenerateToolCandidates drafts n tools and puts them at the head of the review queue.
func (w *Workspace) GenerateToolCandidates(ctx context.Context, n int) (int, error) {
	gen, err := w.generator()
	if err != nil {
		return 0, err
	}

	tools, err := gen.GenerateDirectoryTools(ctx, clampGenCount(n), w.deps.Catalog.Headlines(ctx))
	metrics.ObserveGeneration("tool_batch", err)
	if err != nil {
		return 0, &shell.ActionError{Action: "Batch generation failed", Err: err}
	}

	w.mu.Lock()
	w.toolQueue = append(append([]model.Tool{}, tools...), w.toolQueue...)
	w.mu.Unlock()
	return len(tools), nil
}

func (w *Workspace) GenerateNewsCandidates(ctx context.Context, n int) (int, error) {
	gen, err := w.generator()
	if err != nil {
		return 0, err
	}

	articles, err := gen.GenerateDirectoryNews(ctx, clampGenCount(n), w.deps.Catalog.Headlines(ctx))
	metrics.ObserveGeneration("news_batch", err)
	if err != nil {
		return 0, &shell.ActionError{Action: "Batch news generation failed", Err: err}
	}

	w.mu.Lock()
	w.newsQueue = append(append([]model.NewsArticle{}, articles...), w.newsQueue...)
	w.lastSuccess = nil
	w.mu.Unlock()
	return len(articles), nil
}

// PublishQueuedTool persists one candidate and removes it from the queue. A
// failed publish puts the candidate back at the head.
func (w *Workspace) PublishQueuedTool(ctx context.Context, id string) (*model.Tool, error) {
	tool, ok := w.takeTool(id)
	if !ok {
		return nil, ErrNotQueued
	}

	// The store may rewrite the id; the queued candidate keeps its own.
	published := tool
	if err := w.deps.Catalog.AddTool(ctx, &published); err != nil {
		w.requeueTools(tool)
		return nil, err
	}

	w.mu.Lock()
	w.lastSuccess = &Success{Kind: KindTool, Tool: &published}
	w.mu.Unlock()
	return &published, nil
}

// EditQueuedTool moves a candidate into the tool form.
func (w *Workspace) EditQueuedTool(id string) error {
	tool, ok := w.takeTool(id)
	if !ok {
		return ErrNotQueued
	}

	w.mu.Lock()
	w.toolForm = newToolForm()
	w.toolForm.Draft = tool
	w.tab = TabCreate
	w.mu.Unlock()
	return nil
}

func (w *Workspace) DiscardQueuedTool(id string) error {
	if _, ok := w.takeTool(id); !ok {
		return ErrNotQueued
	}
	return nil
}

// PublishAllTools persists every queued candidate exactly once and empties the
// queue. Candidates that fail to persist are returned to the queue.
func (w *Workspace) PublishAllTools(ctx context.Context) (int, error) {
	w.mu.Lock()
	pending := w.toolQueue
	w.toolQueue = []model.Tool{}
	w.mu.Unlock()

	var (
		published int
		failed    []model.Tool
		errs      []error
	)
	for _, tool := range pending {
		t := tool
		if err := w.deps.Catalog.AddTool(ctx, &t); err != nil {
			slog.Error("error publishing queued tool", "name", tool.Name, "error", err)
			failed = append(failed, tool)
			errs = append(errs, err)
			continue
		}
		published++
	}

	if len(failed) > 0 {
		w.requeueTools(failed...)
	}
	return published, errors.Join(errs...)
}

func (w *Workspace) PublishQueuedNews(ctx context.Context, id string) (*model.NewsArticle, error) {
	article, ok := w.takeNews(id)
	if !ok {
		return nil, ErrNotQueued
	}

	published := article
	if err := w.deps.Catalog.AddNews(ctx, &published); err != nil {
		w.requeueNews(article)
		return nil, err
	}

	w.mu.Lock()
	w.lastSuccess = &Success{Kind: KindNews, News: &published}
	w.mu.Unlock()
	return &published, nil
}

func (w *Workspace) EditQueuedNews(id string) error {
	article, ok := w.takeNews(id)
	if !ok {
		return ErrNotQueued
	}

	w.mu.Lock()
	w.newsForm = newNewsForm()
	w.newsForm.Draft = article
	w.tab = TabNews
	w.mu.Unlock()
	return nil
}

func (w *Workspace) DiscardQueuedNews(id string) error {
	if _, ok := w.takeNews(id); !ok {
		return ErrNotQueued
	}
	return nil
}

func (w *Workspace) PublishAllNews(ctx context.Context) (int, error) {
	w.mu.Lock()
	pending := w.newsQueue
	w.newsQueue = []model.NewsArticle{}
	w.mu.Unlock()

	var (
		published int
		failed    []model.NewsArticle
		errs      []error
	)
	for _, article := range pending {
		a := article
		if err := w.deps.Catalog.AddNews(ctx, &a); err != nil {
			slog.Error("error publishing queued news", "title", article.Title, "error", err)
			failed = append(failed, article)
			errs = append(errs, err)
			continue
		}
		published++
	}

	if len(failed) > 0 {
		w.requeueNews(failed...)
	}
	return published, errors.Join(errs...)
}

// PreviewQueuedTool shows a candidate as the public card would.
func (w *Workspace) PreviewQueuedTool(id string) (*Preview, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, t := range w.toolQueue {
		if t.ID == id {
			tool := previewTool(t, t.ID)
			w.preview = &Preview{Kind: KindTool, Tool: &tool}
			return w.preview, nil
		}
	}
	return nil, ErrNotQueued
}

func (w *Workspace) PreviewQueuedNews(id string) (*Preview, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, a := range w.newsQueue {
		if a.ID == id {
			article := previewNews(a, a.ID, w.now())
			w.preview = &Preview{Kind: KindNews, News: &article}
			return w.preview, nil
		}
	}
	return nil, ErrNotQueued
}

func (w *Workspace) takeTool(id string) (model.Tool, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, t := range w.toolQueue {
		if t.ID == id {
			w.toolQueue = append(w.toolQueue[:i:i], w.toolQueue[i+1:]...)
			return t, true
		}
	}
	return model.Tool{}, false
}

func (w *Workspace) takeNews(id string) (model.NewsArticle, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for i, a := range w.newsQueue {
		if a.ID == id {
			w.newsQueue = append(w.newsQueue[:i:i], w.newsQueue[i+1:]...)
			return a, true
		}
	}
	return model.NewsArticle{}, false
}

func (w *Workspace) requeueTools(tools ...model.Tool) {
	w.mu.Lock()
	w.toolQueue = append(append([]model.Tool{}, tools...), w.toolQueue...)
	w.mu.Unlock()
}

func (w *Workspace) requeueNews(articles ...model.NewsArticle) {
	w.mu.Lock()
	w.newsQueue = append(append([]model.NewsArticle{}, articles...), w.newsQueue...)
	w.mu.Unlock()
}
