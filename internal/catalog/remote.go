package catalog

import (
	"context"

	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/query"
)

// RemoteStore serves the catalog from the hosted database through the query cache.
type RemoteStore struct {
	client *query.Client
}

func NewRemoteStore(client *query.Client) *RemoteStore {
	return &RemoteStore{client: client}
}

func (s *RemoteStore) Remote() bool {
	return true
}

func (s *RemoteStore) Tools(ctx context.Context) ([]model.Tool, error) {
	return s.client.Tools(ctx)
}

func (s *RemoteStore) News(ctx context.Context) ([]model.NewsArticle, error) {
	return s.client.News(ctx)
}

func (s *RemoteStore) Tool(ctx context.Context, id string) (*model.Tool, error) {
	tools, err := s.client.Tools(ctx)
	if err != nil {
		return nil, err
	}
	return findTool(tools, id), nil
}

func (s *RemoteStore) Article(ctx context.Context, id string) (*model.NewsArticle, error) {
	news, err := s.client.News(ctx)
	if err != nil {
		return nil, err
	}
	return findArticle(news, id), nil
}

func (s *RemoteStore) AddTool(ctx context.Context, tool *model.Tool) error {
	// The database assigns ids; a client-side id never reaches the insert.
	tool.ID = ""
	return s.client.AddTool(ctx, tool)
}

func (s *RemoteStore) UpdateTool(ctx context.Context, id string, tool *model.Tool) error {
	return s.client.UpdateTool(ctx, id, tool)
}

func (s *RemoteStore) DeleteTool(ctx context.Context, id string) error {
	return s.client.DeleteTool(ctx, id)
}

func (s *RemoteStore) SetToolSlides(ctx context.Context, id string, slides []model.Slide) error {
	return s.client.SetToolSlides(ctx, id, slides)
}

func (s *RemoteStore) SetToolTutorial(ctx context.Context, id string, tutorial []model.TutorialSection) error {
	return s.client.SetToolTutorial(ctx, id, tutorial)
}

func (s *RemoteStore) SetToolCourse(ctx context.Context, id string, course *model.Course) error {
	return s.client.SetToolCourse(ctx, id, course)
}

func (s *RemoteStore) AddNews(ctx context.Context, article *model.NewsArticle) error {
	article.ID = ""
	return s.client.AddNews(ctx, article)
}

func (s *RemoteStore) UpdateNews(ctx context.Context, id string, article *model.NewsArticle) error {
	return s.client.UpdateNews(ctx, id, article)
}

func (s *RemoteStore) DeleteNews(ctx context.Context, id string) error {
	return s.client.DeleteNews(ctx, id)
}
