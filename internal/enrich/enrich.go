package enrich

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ANOUAR90ESS/veto7/internal/metrics"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/query"
)

// MaxAttempts is how many times a tool is tried before it is dead-lettered.
const MaxAttempts = 3

type ToolStore interface {
	GetByID(ctx context.Context, id string) (*model.Tool, error)
	SetSlides(ctx context.Context, id string, slides []model.Slide) error
	SetTutorial(ctx context.Context, id string, tutorial []model.TutorialSection) error
	SetCourse(ctx context.Context, id string, course *model.Course) error
}

type Generator interface {
	GenerateToolSlides(ctx context.Context, tool model.Tool) ([]model.Slide, error)
	GenerateToolTutorial(ctx context.Context, tool model.Tool) ([]model.TutorialSection, error)
	GenerateFullCourse(ctx context.Context, tool model.Tool) (*model.Course, error)
}

// Queue is the retry bookkeeping around the enrichment queue.
type Queue interface {
	Retry(ctx context.Context, id string) error
	DeadLetter(ctx context.Context, id string) error
	IncrAttempts(ctx context.Context, id string) (int, error)
	ClearAttempts(ctx context.Context, id string) error
}

type Result string

const (
	ResultEnriched     Result = "enriched"
	ResultComplete     Result = "complete"
	ResultMissing      Result = "missing"
	ResultRetried      Result = "retried"
	ResultDeadLettered Result = "dead_lettered"
)

// Cache is the API's shared list cache. Enriched tools drop the tools bucket.
type Cache interface {
	Delete(ctx context.Context, bucket string) error
}

type Worker struct {
	tools ToolStore
	gen   Generator
	queue Queue
	cache Cache
}

// NewWorker builds a worker. cache may be nil when the API caches in process.
func NewWorker(tools ToolStore, gen Generator, queue Queue, cache Cache) *Worker {
	return &Worker{tools: tools, gen: gen, queue: queue, cache: cache}
}

// Process fills whatever premium content the tool lacks. A failure re-queues the
// id until MaxAttempts is reached, after which it is dead-lettered.
func (w *Worker) Process(ctx context.Context, id string) (Result, error) {
	tool, err := w.tools.GetByID(ctx, id)
	if err != nil {
		return w.fail(ctx, id, fmt.Errorf("load tool: %w", err))
	}
	if tool == nil {
		slog.Warn("tool not found", "tool_id", id)
		w.observe(ResultMissing)
		return ResultMissing, nil
	}

	changed, err := w.fill(ctx, tool)
	if changed {
		w.invalidate(ctx)
	}
	if err != nil {
		return w.fail(ctx, id, err)
	}
	if !changed {
		w.observe(ResultComplete)
		return ResultComplete, nil
	}

	if err := w.queue.ClearAttempts(ctx, id); err != nil {
		slog.Warn("error clearing attempts", "tool_id", id, "error", err)
	}

	slog.Info("tool enriched", "tool_id", id, "name", tool.Name)
	w.observe(ResultEnriched)
	return ResultEnriched, nil
}

// fill generates each missing piece and saves it on its own, so a later failure
// keeps what was already generated.
func (w *Worker) fill(ctx context.Context, tool *model.Tool) (bool, error) {
	changed := false

	if len(tool.Slides) == 0 {
		slides, err := w.gen.GenerateToolSlides(ctx, *tool)
		metrics.ObserveGeneration("slides", err)
		if err != nil {
			return changed, fmt.Errorf("slides: %w", err)
		}
		if err := w.tools.SetSlides(ctx, tool.ID, slides); err != nil {
			return changed, fmt.Errorf("save slides: %w", err)
		}
		changed = true
	}

	if len(tool.Tutorial) == 0 {
		tutorial, err := w.gen.GenerateToolTutorial(ctx, *tool)
		metrics.ObserveGeneration("tutorial", err)
		if err != nil {
			return changed, fmt.Errorf("tutorial: %w", err)
		}
		if err := w.tools.SetTutorial(ctx, tool.ID, tutorial); err != nil {
			return changed, fmt.Errorf("save tutorial: %w", err)
		}
		changed = true
	}

	if tool.Course == nil || len(tool.Course.Modules) == 0 {
		course, err := w.gen.GenerateFullCourse(ctx, *tool)
		metrics.ObserveGeneration("course", err)
		if err != nil {
			return changed, fmt.Errorf("course: %w", err)
		}
		if err := w.tools.SetCourse(ctx, tool.ID, course); err != nil {
			return changed, fmt.Errorf("save course: %w", err)
		}
		changed = true
	}

	return changed, nil
}

func (w *Worker) invalidate(ctx context.Context) {
	if w.cache == nil {
		return
	}
	if err := w.cache.Delete(ctx, query.BucketTools); err != nil {
		slog.Warn("error invalidating tools cache", "error", err)
	}
}

func (w *Worker) fail(ctx context.Context, id string, cause error) (Result, error) {
	attempts, err := w.queue.IncrAttempts(ctx, id)
	if err != nil {
		slog.Error("error counting attempts", "tool_id", id, "error", err)
	}

	if attempts >= MaxAttempts {
		slog.Warn("tool exceeded max attempts, dead-lettering", "tool_id", id, "attempts", attempts, "error", cause)
		if err := w.queue.DeadLetter(ctx, id); err != nil {
			slog.Error("error dead-lettering tool", "tool_id", id, "error", err)
		}
		if err := w.queue.ClearAttempts(ctx, id); err != nil {
			slog.Warn("error clearing attempts", "tool_id", id, "error", err)
		}
		w.observe(ResultDeadLettered)
		return ResultDeadLettered, cause
	}

	slog.Error("error enriching tool, re-queueing", "tool_id", id, "attempts", attempts, "error", cause)
	if err := w.queue.Retry(ctx, id); err != nil {
		slog.Error("error re-queueing tool", "tool_id", id, "error", err)
	}
	w.observe(ResultRetried)
	return ResultRetried, cause
}

func (w *Worker) observe(r Result) {
	metrics.EnrichJobs.WithLabelValues(string(r)).Inc()
}
