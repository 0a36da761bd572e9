package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/ANOUAR90ESS/veto7/internal/model"

	"github.com/go-playground/assert/v2"
)

func TestMemoryStore_AddToolPrependsAndAssignsID(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	first := &model.Tool{Name: "First"}
	second := &model.Tool{Name: "Second"}
	assert.Equal(t, nil, s.AddTool(ctx, first))
	assert.Equal(t, nil, s.AddTool(ctx, second))

	tools, err := s.Tools(ctx)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(tools))
	assert.Equal(t, "Second", tools[0].Name)
	assert.Equal(t, "First", tools[1].Name)
	assert.NotEqual(t, "", first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, false, tools[0].CreatedAt.IsZero())
}

func TestMemoryStore_AddToolKeepsGivenID(t *testing.T) {
	s := NewMemoryStore()

	_ = s.AddTool(context.Background(), &model.Tool{ID: "fixed", Name: "X"})
	got, _ := s.Tool(context.Background(), "fixed")

	assert.Equal(t, "X", got.Name)
}

func TestMemoryStore_SeedOnlyWhenEmpty(t *testing.T) {
	s := NewMemoryStore()

	assert.Equal(t, true, s.SeedTools([]model.Tool{{ID: "a"}, {ID: "b"}}))
	assert.Equal(t, false, s.SeedTools([]model.Tool{{ID: "c"}}))
	assert.Equal(t, false, NewMemoryStore().SeedTools(nil))

	tools, _ := s.Tools(context.Background())
	assert.Equal(t, 2, len(tools))
}

func TestMemoryStore_UpdateTool(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	tool := &model.Tool{Name: "Old"}
	_ = s.AddTool(ctx, tool)

	err := s.UpdateTool(ctx, tool.ID, &model.Tool{Name: "New"})
	assert.Equal(t, nil, err)

	got, _ := s.Tool(ctx, tool.ID)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, tool.ID, got.ID)
	assert.Equal(t, tool.CreatedAt, got.CreatedAt)

	err = s.UpdateTool(ctx, "missing", &model.Tool{})
	assert.Equal(t, true, errors.Is(err, ErrNotFound))
}

func TestMemoryStore_DeleteTool(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.AddTool(ctx, &model.Tool{ID: "a"})
	_ = s.AddTool(ctx, &model.Tool{ID: "b"})

	assert.Equal(t, nil, s.DeleteTool(ctx, "a"))
	assert.Equal(t, true, errors.Is(s.DeleteTool(ctx, "a"), ErrNotFound))

	tools, _ := s.Tools(ctx)
	assert.Equal(t, 1, len(tools))
	assert.Equal(t, "b", tools[0].ID)
}

func TestMemoryStore_News(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	a := &model.NewsArticle{Title: "One"}
	assert.Equal(t, nil, s.AddNews(ctx, a))
	assert.Equal(t, nil, s.AddNews(ctx, &model.NewsArticle{Title: "Two"}))

	news, _ := s.News(ctx)
	assert.Equal(t, "Two", news[0].Title)
	assert.Equal(t, false, a.Date.IsZero())

	assert.Equal(t, nil, s.UpdateNews(ctx, a.ID, &model.NewsArticle{Title: "One (edited)"}))
	got, _ := s.Article(ctx, a.ID)
	assert.Equal(t, "One (edited)", got.Title)

	assert.Equal(t, nil, s.DeleteNews(ctx, a.ID))
	missing, _ := s.Article(ctx, a.ID)
	assert.Equal(t, true, missing == nil)
	assert.Equal(t, true, errors.Is(s.UpdateNews(ctx, "nope", &model.NewsArticle{}), ErrNotFound))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.AddTool(ctx, &model.Tool{ID: "a", Name: "A"})

	tools, _ := s.Tools(ctx)
	tools[0].Name = "mutated"

	again, _ := s.Tools(ctx)
	assert.Equal(t, "A", again[0].Name)
}

func TestMemoryStore_SetToolContentKeepsOtherFields(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	tool := &model.Tool{Name: "Runway", Tutorial: []model.TutorialSection{{Title: "Setup"}}}
	assert.Equal(t, nil, s.AddTool(ctx, tool))

	assert.Equal(t, nil, s.SetToolSlides(ctx, tool.ID, []model.Slide{{Title: "Intro"}}))
	assert.Equal(t, nil, s.SetToolCourse(ctx, tool.ID, &model.Course{Title: "Runway 101"}))

	got, _ := s.Tool(ctx, tool.ID)
	assert.Equal(t, "Runway", got.Name)
	assert.Equal(t, "Intro", got.Slides[0].Title)
	assert.Equal(t, "Setup", got.Tutorial[0].Title)
	assert.Equal(t, "Runway 101", got.Course.Title)

	err := s.SetToolTutorial(ctx, "missing", nil)
	assert.Equal(t, true, errors.Is(err, ErrNotFound))
}
