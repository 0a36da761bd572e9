package shell

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ANOUAR90ESS/veto7/internal/catalog"
	"github.com/ANOUAR90ESS/veto7/internal/metrics"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/pkg/llm"
)

// ToolSlides returns the tool's deck, generating and persisting it on first request.
func (s *Shell) ToolSlides(ctx context.Context, p *model.Profile, id string) ([]model.Slide, error) {
	tool, err := s.premiumTool(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if len(tool.Slides) > 0 {
		return tool.Slides, nil
	}
	if s.gen == nil {
		return nil, llm.ErrUnavailable
	}

	slides, err := s.gen.GenerateToolSlides(ctx, *tool)
	metrics.ObserveGeneration("slides", err)
	if err != nil {
		return nil, &ActionError{Action: "Failed to generate slides", Err: err}
	}

	s.persistGenerated(ctx, p, tool.ID, "slides", func(ctx context.Context) error {
		return s.store.SetToolSlides(ctx, tool.ID, slides)
	})
	return slides, nil
}

func (s *Shell) ToolTutorial(ctx context.Context, p *model.Profile, id string) ([]model.TutorialSection, error) {
	tool, err := s.premiumTool(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if len(tool.Tutorial) > 0 {
		return tool.Tutorial, nil
	}
	if s.gen == nil {
		return nil, llm.ErrUnavailable
	}

	sections, err := s.gen.GenerateToolTutorial(ctx, *tool)
	metrics.ObserveGeneration("tutorial", err)
	if err != nil {
		return nil, &ActionError{Action: "Failed to generate tutorial", Err: err}
	}

	s.persistGenerated(ctx, p, tool.ID, "tutorial", func(ctx context.Context) error {
		return s.store.SetToolTutorial(ctx, tool.ID, sections)
	})
	return sections, nil
}

// ToolCourse returns the stored course, or nil when none exists yet.
func (s *Shell) ToolCourse(ctx context.Context, p *model.Profile, id string) (*model.Course, error) {
	tool, err := s.premiumTool(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return tool.Course, nil
}

// GenerateCourse builds the full course for a tool unless one is already stored.
func (s *Shell) GenerateCourse(ctx context.Context, p *model.Profile, id string) (*model.Course, error) {
	tool, err := s.premiumTool(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if tool.Course != nil && len(tool.Course.Modules) > 0 {
		return tool.Course, nil
	}
	if s.gen == nil {
		return nil, llm.ErrUnavailable
	}

	course, err := s.gen.GenerateFullCourse(ctx, *tool)
	metrics.ObserveGeneration("course", err)
	if err != nil {
		return nil, &ActionError{Action: "Failed to generate course", Err: err}
	}

	s.persistGenerated(ctx, p, tool.ID, "course", func(ctx context.Context) error {
		return s.store.SetToolCourse(ctx, tool.ID, course)
	})
	return course, nil
}

func (s *Shell) premiumTool(ctx context.Context, p *model.Profile, id string) (*model.Tool, error) {
	if !p.HasPremiumAccess() {
		return nil, ErrPremiumRequired
	}

	tool, err := s.store.Tool(ctx, id)
	if err != nil {
		return nil, err
	}
	if tool == nil {
		return nil, fmt.Errorf("tool %s: %w", id, catalog.ErrNotFound)
	}
	return tool, nil
}

// persistGenerated saves generated content and counts the generation against the
// profile. Failures are logged; the caller still receives the content.
func (s *Shell) persistGenerated(ctx context.Context, p *model.Profile, toolID, kind string, save func(context.Context) error) {
	if err := save(ctx); err != nil {
		slog.Error("error saving generated content", "kind", kind, "tool_id", toolID, "error", err)
	}

	if s.mode != ModeRemote || s.usage == nil {
		return
	}
	if err := s.usage.IncrementGenerations(ctx, p.ID); err != nil {
		slog.Error("error counting generation", "user_id", p.ID, "error", err)
	}
}
