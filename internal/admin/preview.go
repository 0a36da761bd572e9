package admin

import (
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/model"
)

const previewID = "preview"

func previewTool(t model.Tool, id string) model.Tool {
	out := finalizeTool(t)
	out.ID = id
	return out
}

func previewNews(a model.NewsArticle, id string, now time.Time) model.NewsArticle {
	out := finalizeNews(a, now)
	if !a.Date.IsZero() {
		out.Date = a.Date
	}
	out.ID = id
	return out
}

// PreviewToolDraft renders the tool form as the public card would show it.
func (w *Workspace) PreviewToolDraft() *Preview {
	w.mu.Lock()
	defer w.mu.Unlock()

	tool := previewTool(w.toolForm.Draft, previewID)
	w.preview = &Preview{Kind: KindTool, Tool: &tool}
	return w.preview
}

func (w *Workspace) PreviewNewsDraft() *Preview {
	w.mu.Lock()
	defer w.mu.Unlock()

	article := previewNews(w.newsForm.Draft, previewID, w.now())
	w.preview = &Preview{Kind: KindNews, News: &article}
	return w.preview
}

// PreviewLastSuccess opens the entity shown in the success banner.
func (w *Workspace) PreviewLastSuccess() (*Preview, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.lastSuccess == nil {
		return nil, validationError("nothing was published yet")
	}
	w.preview = &Preview{Kind: w.lastSuccess.Kind, Tool: w.lastSuccess.Tool, News: w.lastSuccess.News}
	return w.preview, nil
}

// EditLastSuccess loads the entity shown in the success banner back into its form.
func (w *Workspace) EditLastSuccess() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.lastSuccess
	if s == nil {
		return validationError("nothing was published yet")
	}
	switch {
	case s.Tool != nil:
		w.toolForm = newToolForm()
		w.toolForm.Draft = *s.Tool
		w.toolForm.EditingID = s.Tool.ID
		w.tab = TabCreate
	case s.News != nil:
		w.newsForm = newNewsForm()
		w.newsForm.Draft = *s.News
		w.newsForm.EditingID = s.News.ID
		w.tab = TabNews
	}
	w.lastSuccess = nil
	return nil
}
