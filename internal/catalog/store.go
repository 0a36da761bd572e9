package catalog

import (
	"context"

	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/repository"
)

// ErrNotFound is returned by both variants when an id does not exist.
var ErrNotFound = repository.ErrNotFound

// Store is the data-access surface shared by the remote and in-memory variants.
type Store interface {
	Tools(ctx context.Context) ([]model.Tool, error)
	News(ctx context.Context) ([]model.NewsArticle, error)
	Tool(ctx context.Context, id string) (*model.Tool, error)
	Article(ctx context.Context, id string) (*model.NewsArticle, error)

	AddTool(ctx context.Context, tool *model.Tool) error
	UpdateTool(ctx context.Context, id string, tool *model.Tool) error
	DeleteTool(ctx context.Context, id string) error

	// SetToolSlides, SetToolTutorial and SetToolCourse replace one piece of
	// generated content and leave the rest of the tool as stored.
	SetToolSlides(ctx context.Context, id string, slides []model.Slide) error
	SetToolTutorial(ctx context.Context, id string, tutorial []model.TutorialSection) error
	SetToolCourse(ctx context.Context, id string, course *model.Course) error

	AddNews(ctx context.Context, article *model.NewsArticle) error
	UpdateNews(ctx context.Context, id string, article *model.NewsArticle) error
	DeleteNews(ctx context.Context, id string) error

	Remote() bool
}

func findTool(tools []model.Tool, id string) *model.Tool {
	for i := range tools {
		if tools[i].ID == id {
			t := tools[i]
			return &t
		}
	}
	return nil
}

func findArticle(news []model.NewsArticle, id string) *model.NewsArticle {
	for i := range news {
		if news[i].ID == id {
			a := news[i]
			return &a
		}
	}
	return nil
}
