package admin

import (
	"context"
	"sort"

	"github.com/ANOUAR90ESS/veto7/internal/metrics"
	"github.com/ANOUAR90ESS/veto7/internal/model"
	"github.com/ANOUAR90ESS/veto7/internal/repository"
	"github.com/ANOUAR90ESS/veto7/internal/shell"
)

const (
	AllCategories = "All"

	SortNewest = "newest"
	SortOldest = "oldest"
)

type ToolListing struct {
	Categories []string     `json:"categories"`
	Category   string       `json:"category"`
	Tools      []model.Tool `json:"tools"`
}

type NewsListing struct {
	Categories []string            `json:"categories"`
	Category   string              `json:"category"`
	Sort       string              `json:"sort"`
	News       []model.NewsArticle `json:"news"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Analytics struct {
	TotalTools      int             `json:"totalTools"`
	TotalNews       int             `json:"totalNews"`
	CategoryCount   int             `json:"categoryCount"`
	ToolsByCategory []CategoryCount `json:"toolsByCategory"`
	Report          string          `json:"report,omitempty"`
}

// ManageTools lists published tools, filtered by category unless category is All or empty.
func (w *Workspace) ManageTools(ctx context.Context, category string) (*ToolListing, error) {
	tools, err := w.deps.Catalog.Store().Tools(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		category = AllCategories
	}

	present := make([]string, 0, len(tools))
	filtered := make([]model.Tool, 0, len(tools))
	for _, t := range tools {
		present = append(present, t.Category)
		if category == AllCategories || t.Category == category {
			filtered = append(filtered, t)
		}
	}

	return &ToolListing{
		Categories: categoryUnion(model.ToolCategories, present),
		Category:   category,
		Tools:      filtered,
	}, nil
}

// ManageNews lists published articles filtered by category and ordered by date.
func (w *Workspace) ManageNews(ctx context.Context, category, order string) (*NewsListing, error) {
	if order == "" {
		order = SortNewest
	}
	if order != SortNewest && order != SortOldest {
		return nil, validationError("sort must be newest or oldest")
	}

	news, err := w.deps.Catalog.Store().News(ctx)
	if err != nil {
		return nil, err
	}
	if category == "" {
		category = AllCategories
	}

	w.mu.Lock()
	known := append([]string(nil), w.newsCategories...)
	w.mu.Unlock()

	present := make([]string, 0, len(news))
	filtered := make([]model.NewsArticle, 0, len(news))
	for _, a := range news {
		present = append(present, a.Category)
		if category == AllCategories || a.Category == category {
			filtered = append(filtered, a)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if order == SortOldest {
			return filtered[i].Date.Before(filtered[j].Date)
		}
		return filtered[i].Date.After(filtered[j].Date)
	})

	return &NewsListing{
		Categories: categoryUnion(known, present),
		Category:   category,
		Sort:       order,
		News:       filtered,
	}, nil
}

func (w *Workspace) Analytics(ctx context.Context) (*Analytics, error) {
	store := w.deps.Catalog.Store()
	tools, err := store.Tools(ctx)
	if err != nil {
		return nil, err
	}
	news, err := store.News(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, t := range tools {
		counts[t.Category]++
	}
	byCategory := make([]CategoryCount, 0, len(counts))
	for c, n := range counts {
		byCategory = append(byCategory, CategoryCount{Category: c, Count: n})
	}
	sort.Slice(byCategory, func(i, j int) bool {
		if byCategory[i].Count != byCategory[j].Count {
			return byCategory[i].Count > byCategory[j].Count
		}
		return byCategory[i].Category < byCategory[j].Category
	})

	w.mu.Lock()
	report := w.report
	w.mu.Unlock()

	return &Analytics{
		TotalTools:      len(tools),
		TotalNews:       len(news),
		CategoryCount:   len(counts),
		ToolsByCategory: byCategory,
		Report:          report,
	}, nil
}

// AnalyzeTrends asks the generator for a markdown report on the current catalog.
func (w *Workspace) AnalyzeTrends(ctx context.Context) (string, error) {
	gen, err := w.generator()
	if err != nil {
		return "", err
	}
	tools, err := w.deps.Catalog.Store().Tools(ctx)
	if err != nil {
		return "", err
	}

	report, err := gen.AnalyzeToolTrends(ctx, tools)
	metrics.ObserveGeneration("trend_report", err)
	if err != nil {
		err = &shell.ActionError{Action: "Error generating report", Err: err}
		w.mu.Lock()
		w.report = err.Error()
		w.mu.Unlock()
		return "", err
	}

	w.mu.Lock()
	w.report = report
	w.mu.Unlock()
	return report, nil
}

// Schema returns the SQL that provisions the hosted database.
func (w *Workspace) Schema() string {
	return repository.Schema
}

func categoryUnion(known, present []string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(known)+len(present))
	for _, list := range [][]string{known, present} {
		for _, c := range list {
			if c == "" || seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
