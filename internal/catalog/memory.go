package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/model"

	"github.com/google/uuid"
)

// MemoryStore is the local fallback: entities live in process memory only and
// no operation touches the network. New entities are placed at the head.
type MemoryStore struct {
	mu    sync.RWMutex
	tools []model.Tool
	news  []model.NewsArticle
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tools: []model.Tool{},
		news:  []model.NewsArticle{},
		now:   time.Now,
	}
}

func (s *MemoryStore) Remote() bool {
	return false
}

// SeedTools installs tools only if the store holds none. It reports whether it did.
func (s *MemoryStore) SeedTools(tools []model.Tool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.tools) > 0 || len(tools) == 0 {
		return false
	}
	s.tools = make([]model.Tool, len(tools))
	copy(s.tools, tools)
	return true
}

func (s *MemoryStore) Tools(ctx context.Context) ([]model.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Tool, len(s.tools))
	copy(out, s.tools)
	return out, nil
}

func (s *MemoryStore) News(ctx context.Context) ([]model.NewsArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.NewsArticle, len(s.news))
	copy(out, s.news)
	return out, nil
}

func (s *MemoryStore) Tool(ctx context.Context, id string) (*model.Tool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findTool(s.tools, id), nil
}

func (s *MemoryStore) Article(ctx context.Context, id string) (*model.NewsArticle, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return findArticle(s.news, id), nil
}

func (s *MemoryStore) AddTool(ctx context.Context, tool *model.Tool) error {
	if tool.ID == "" {
		tool.ID = uuid.NewString()
	}
	if tool.CreatedAt.IsZero() {
		tool.CreatedAt = s.now()
	}

	s.mu.Lock()
	s.tools = append([]model.Tool{*tool}, s.tools...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) UpdateTool(ctx context.Context, id string, tool *model.Tool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tools {
		if s.tools[i].ID == id {
			updated := *tool
			updated.ID = id
			if updated.CreatedAt.IsZero() {
				updated.CreatedAt = s.tools[i].CreatedAt
			}
			s.tools[i] = updated
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteTool(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tools {
		if s.tools[i].ID == id {
			s.tools = append(s.tools[:i], s.tools[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) SetToolSlides(ctx context.Context, id string, slides []model.Slide) error {
	return s.modifyTool(id, func(t *model.Tool) { t.Slides = slides })
}

func (s *MemoryStore) SetToolTutorial(ctx context.Context, id string, tutorial []model.TutorialSection) error {
	return s.modifyTool(id, func(t *model.Tool) { t.Tutorial = tutorial })
}

func (s *MemoryStore) SetToolCourse(ctx context.Context, id string, course *model.Course) error {
	return s.modifyTool(id, func(t *model.Tool) { t.Course = course })
}

func (s *MemoryStore) modifyTool(id string, fn func(t *model.Tool)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tools {
		if s.tools[i].ID == id {
			fn(&s.tools[i])
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) AddNews(ctx context.Context, article *model.NewsArticle) error {
	if article.ID == "" {
		article.ID = uuid.NewString()
	}
	if article.Date.IsZero() {
		article.Date = s.now()
	}

	s.mu.Lock()
	s.news = append([]model.NewsArticle{*article}, s.news...)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) UpdateNews(ctx context.Context, id string, article *model.NewsArticle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.news {
		if s.news[i].ID == id {
			updated := *article
			updated.ID = id
			s.news[i] = updated
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) DeleteNews(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.news {
		if s.news[i].ID == id {
			s.news = append(s.news[:i], s.news[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
