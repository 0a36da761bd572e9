package shell

import (
	"context"
	"log/slog"

	"github.com/ANOUAR90ESS/veto7/internal/model"
)

// ActionError carries the human-readable prefix shown to whoever triggered the mutation.
type ActionError struct {
	Action string
	Err    error
}

func (e *ActionError) Error() string {
	return e.Action + ": " + e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

func (s *Shell) AddTool(ctx context.Context, tool *model.Tool) error {
	if err := s.store.AddTool(ctx, tool); err != nil {
		slog.Error("error adding tool", "name", tool.Name, "error", err)
		return &ActionError{Action: "Failed to save tool", Err: err}
	}

	if s.mode == ModeRemote && s.enqueue != nil && needsEnrichment(tool) {
		if err := s.enqueue(ctx, tool.ID); err != nil {
			slog.Error("error queueing tool enrichment", "tool_id", tool.ID, "error", err)
		}
	}
	return nil
}

func (s *Shell) UpdateTool(ctx context.Context, id string, tool *model.Tool) error {
	if err := s.store.UpdateTool(ctx, id, tool); err != nil {
		slog.Error("error updating tool", "tool_id", id, "error", err)
		return &ActionError{Action: "Failed to update tool", Err: err}
	}
	return nil
}

func (s *Shell) DeleteTool(ctx context.Context, id string) error {
	if err := s.store.DeleteTool(ctx, id); err != nil {
		slog.Error("error deleting tool", "tool_id", id, "error", err)
		return &ActionError{Action: "Failed to delete tool from database", Err: err}
	}
	return nil
}

func (s *Shell) AddNews(ctx context.Context, article *model.NewsArticle) error {
	if err := s.store.AddNews(ctx, article); err != nil {
		slog.Error("error adding news", "title", article.Title, "error", err)
		return &ActionError{Action: "Failed to save news", Err: err}
	}
	return nil
}

func (s *Shell) UpdateNews(ctx context.Context, id string, article *model.NewsArticle) error {
	if err := s.store.UpdateNews(ctx, id, article); err != nil {
		slog.Error("error updating news", "news_id", id, "error", err)
		return &ActionError{Action: "Failed to update news", Err: err}
	}
	return nil
}

func (s *Shell) DeleteNews(ctx context.Context, id string) error {
	if err := s.store.DeleteNews(ctx, id); err != nil {
		slog.Error("error deleting news", "news_id", id, "error", err)
		return &ActionError{Action: "Failed to delete article from database", Err: err}
	}
	return nil
}

func needsEnrichment(t *model.Tool) bool {
	return len(t.Slides) == 0 || len(t.Tutorial) == 0 || t.Course == nil
}
