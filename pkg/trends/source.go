package trends

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
)

type Headline struct {
	Title       string
	Summary     string
	URL         string
	Publisher   string
	Source      string
	PublishedAt time.Time
}

type Source interface {
	Fetch(ctx context.Context, limit int) ([]Headline, error)
	Name() string
}

var aiKeywords = []string{
	" ai ", "ai-", "a.i.", "artificial intelligence", "openai", "chatgpt", "gpt", "llm",
	"anthropic", "claude", "gemini", "copilot", "machine learning", "generative", "chatbot",
	"nvidia", "deepmind", "midjourney", "mistral",
}

// IsAIRelated reports whether a headline plausibly covers AI products or research.
func IsAIRelated(title string) bool {
	t := " " + strings.ToLower(title) + " "
	for _, k := range aiKeywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// Collect queries every source concurrently and returns up to limit distinct titles.
// A failing source is logged and skipped.
func Collect(ctx context.Context, sources []Source, limit int) []string {
	if len(sources) == 0 || limit <= 0 {
		return nil
	}

	results := make([][]Headline, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			hs, err := src.Fetch(ctx, limit)
			if err != nil {
				slog.Warn("error fetching trending headlines", "source", src.Name(), "error", err)
				return
			}
			results[i] = hs
		}(i, src)
	}
	wg.Wait()

	seen := make(map[string]bool)
	titles := make([]string, 0, limit)
	for _, hs := range results {
		for _, h := range hs {
			key := strings.ToLower(strings.TrimSpace(h.Title))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			titles = append(titles, strings.TrimSpace(h.Title))
			if len(titles) == limit {
				return titles
			}
		}
	}
	return titles
}
