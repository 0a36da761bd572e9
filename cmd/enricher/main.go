package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ANOUAR90ESS/veto7/db"
	"github.com/ANOUAR90ESS/veto7/internal/config"
	"github.com/ANOUAR90ESS/veto7/internal/enrich"
	"github.com/ANOUAR90ESS/veto7/internal/query"
	"github.com/ANOUAR90ESS/veto7/internal/repository"
	"github.com/ANOUAR90ESS/veto7/pkg/llm"
)

const (
	popTimeout = 5 * time.Second
	retryDelay = 5 * time.Second
)

type redisQueue struct{}

func (redisQueue) Retry(ctx context.Context, id string) error {
	return db.PushToQueue(ctx, db.EnrichQueueKey, id)
}

func (redisQueue) DeadLetter(ctx context.Context, id string) error {
	return db.PushToQueue(ctx, db.DeadLetterKey, id)
}

func (redisQueue) IncrAttempts(ctx context.Context, id string) (int, error) {
	return db.IncrAttempts(ctx, id)
}

func (redisQueue) ClearAttempts(ctx context.Context, id string) error {
	return db.ClearAttempts(ctx, id)
}

func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.ConnectRedis(ctx, cfg.RedisURL); err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	if err := db.Connect(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	gen := llm.FromKeys(cfg.LLMProvider, cfg.OpenAIAPIKey, cfg.AnthropicAPIKey)
	if gen == nil {
		log.Fatal("no LLM API key set, nothing to enrich with")
	}

	worker := enrich.NewWorker(repository.NewToolRepository(db.DB), gen, redisQueue{}, query.NewRedisStore(db.Redis))
	slog.Info("enricher started", "queue", db.EnrichQueueKey, "model", gen.ModelName())

	for {
		id, err := db.PopFromQueue(ctx, db.EnrichQueueKey, popTimeout)
		if ctx.Err() != nil {
			break
		}
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}
		if id == "" {
			continue
		}

		res, err := worker.Process(ctx, id)
		if errors.Is(err, context.Canceled) {
			break
		}
		if res == enrich.ResultRetried {
			select {
			case <-ctx.Done():
			case <-time.After(retryDelay):
			}
		}
	}

	slog.Info("enricher stopped")
}
