package admin

import (
	"context"
	"fmt"

	"github.com/ANOUAR90ESS/veto7/internal/catalog"
)

const (
	KindTool = "tool"
	KindNews = "news"
)

// DeleteTarget is a delete awaiting confirmation.
type DeleteTarget struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RequestDelete records a pending delete. Nothing is removed until ConfirmDelete.
func (w *Workspace) RequestDelete(ctx context.Context, kind, id string) (*DeleteTarget, error) {
	target := &DeleteTarget{Kind: kind, ID: id}

	store := w.deps.Catalog.Store()
	switch kind {
	case KindTool:
		tool, err := store.Tool(ctx, id)
		if err != nil {
			return nil, err
		}
		if tool == nil {
			return nil, fmt.Errorf("tool %s: %w", id, catalog.ErrNotFound)
		}
		target.Name = tool.Name
	case KindNews:
		article, err := store.Article(ctx, id)
		if err != nil {
			return nil, err
		}
		if article == nil {
			return nil, fmt.Errorf("news %s: %w", id, catalog.ErrNotFound)
		}
		target.Name = article.Title
	default:
		return nil, validationError(fmt.Sprintf("unknown kind %q", kind))
	}

	w.mu.Lock()
	w.pendingDelete = target
	w.mu.Unlock()
	return target, nil
}

// ConfirmDelete performs the pending delete. The target is cleared whatever the outcome.
func (w *Workspace) ConfirmDelete(ctx context.Context) (*DeleteTarget, error) {
	w.mu.Lock()
	target := w.pendingDelete
	w.pendingDelete = nil
	w.mu.Unlock()

	if target == nil {
		return nil, ErrNoPendingDelete
	}

	var err error
	if target.Kind == KindTool {
		err = w.deps.Catalog.DeleteTool(ctx, target.ID)
	} else {
		err = w.deps.Catalog.DeleteNews(ctx, target.ID)
	}
	if err != nil {
		return nil, err
	}
	return target, nil
}

func (w *Workspace) CancelDelete() {
	w.mu.Lock()
	w.pendingDelete = nil
	w.mu.Unlock()
}
