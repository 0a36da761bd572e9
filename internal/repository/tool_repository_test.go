package repository

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/ANOUAR90ESS/veto7/internal/model"

	"github.com/go-playground/assert/v2"
	_ "github.com/lib/pq"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("VETO7_TEST_DB_URL")
	if dbURL == "" {
		t.Skip("Skipping test: VETO7_TEST_DB_URL not set")
	}

	conn, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Skipf("Skipping test: cannot open test database: %v", err)
	}
	if err := conn.Ping(); err != nil {
		t.Skipf("Skipping test: cannot connect to test database: %v", err)
	}

	_, err = conn.Exec(`
		CREATE TABLE IF NOT EXISTS tools (
			id uuid DEFAULT gen_random_uuid() PRIMARY KEY,
			created_at timestamptz DEFAULT now() NOT NULL,
			name text NOT NULL,
			description text, category text, price text, tags text[], website text,
			image_url text, features text[], use_cases text[], pros text[], cons text[],
			how_to_use text, slides jsonb, tutorial jsonb, course jsonb, page text
		);
		TRUNCATE TABLE tools;
	`)
	if err != nil {
		t.Skipf("Skipping test: cannot prepare database: %v", err)
	}

	return conn
}

func TestToolRepository_RoundTrip(t *testing.T) {
	conn := setupTestDB(t)
	defer conn.Close()
	repo := NewToolRepository(conn)
	ctx := context.Background()

	tool := &model.Tool{
		Name:     "Runway",
		Category: "Video",
		Tags:     []string{"video", "gen"},
		UseCases: []string{"Ads"},
		Slides:   []model.Slide{{Title: "Intro", Bullets: []string{"a"}}},
	}
	assert.Equal(t, nil, repo.Insert(ctx, tool))
	assert.NotEqual(t, "", tool.ID)

	got, err := repo.GetByID(ctx, tool.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, "Runway", got.Name)
	assert.Equal(t, []string{"video", "gen"}, got.Tags)
	assert.Equal(t, []string{"Ads"}, got.UseCases)
	assert.Equal(t, "Intro", got.Slides[0].Title)
	assert.Equal(t, model.PageFree, got.Page)
	assert.Equal(t, true, got.Course == nil)

	got.Course = &model.Course{Title: "Runway 101", Modules: []model.CourseModule{{Title: "Basics"}}}
	assert.Equal(t, nil, repo.Update(ctx, tool.ID, got))

	list, err := repo.List(ctx)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(list))
	assert.Equal(t, "Runway 101", list[0].Course.Title)

	assert.Equal(t, nil, repo.SetTutorial(ctx, tool.ID, []model.TutorialSection{{Title: "Setup"}}))
	assert.Equal(t, nil, repo.SetSlides(ctx, tool.ID, []model.Slide{{Title: "Replaced"}}))
	got, err = repo.GetByID(ctx, tool.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, "Replaced", got.Slides[0].Title)
	assert.Equal(t, "Setup", got.Tutorial[0].Title)
	assert.Equal(t, "Runway 101", got.Course.Title)
	assert.Equal(t, []string{"video", "gen"}, got.Tags)
	assert.Equal(t, true, errors.Is(repo.SetCourse(ctx, "00000000-0000-0000-0000-000000000000", nil), ErrNotFound))

	assert.Equal(t, nil, repo.Delete(ctx, tool.ID))
	assert.Equal(t, true, errors.Is(repo.Delete(ctx, tool.ID), ErrNotFound))

	missing, err := repo.GetByID(ctx, tool.ID)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, missing == nil)
}

func TestToolArgs_EmptyContentStoredAsNull(t *testing.T) {
	args, err := toolArgs(&model.Tool{Name: "Bare"})

	assert.Equal(t, nil, err)
	assert.Equal(t, 16, len(args))
	assert.Equal(t, nil, args[12])
	assert.Equal(t, nil, args[13])
	assert.Equal(t, nil, args[14])
	assert.Equal(t, model.PageFree, args[15])
}

func TestDecodeJSONColumn(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"empty", "", 0},
		{"null", "null", 0},
		{"two slides", `[{"title":"a"},{"title":"b"}]`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var slides []model.Slide
			err := decodeJSONColumn([]byte(tt.raw), &slides)
			assert.Equal(t, nil, err)
			assert.Equal(t, tt.want, len(slides))
		})
	}
}

func TestSchema_DeclaresTables(t *testing.T) {
	for _, table := range []string{"public.profiles", "public.tools", "public.news"} {
		assert.Equal(t, true, strings.Contains(Schema, "create table if not exists "+table))
	}
}
