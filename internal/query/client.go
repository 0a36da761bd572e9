package query

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/metrics"
	"github.com/ANOUAR90ESS/veto7/internal/model"
)

const (
	BucketTools = "tools"
	BucketNews  = "news"

	// StaleTime is how long a fetched list is served without refetching.
	StaleTime = 5 * time.Minute
	// GCTime is how long an unused list is retained.
	GCTime = 10 * time.Minute
)

var ErrDisabled = errors.New("remote data source is not configured")

type ToolRepository interface {
	List(ctx context.Context) ([]model.Tool, error)
	Insert(ctx context.Context, tool *model.Tool) error
	Update(ctx context.Context, id string, tool *model.Tool) error
	Delete(ctx context.Context, id string) error

	SetSlides(ctx context.Context, id string, slides []model.Slide) error
	SetTutorial(ctx context.Context, id string, tutorial []model.TutorialSection) error
	SetCourse(ctx context.Context, id string, course *model.Course) error
}

type NewsRepository interface {
	List(ctx context.Context) ([]model.NewsArticle, error)
	Insert(ctx context.Context, article *model.NewsArticle) error
	Update(ctx context.Context, id string, article *model.NewsArticle) error
	Delete(ctx context.Context, id string) error
}

// Client caches the tools and news lists and routes mutations through the repositories.
// A Client built without repositories is disabled: reads are empty and never fetch.
type Client struct {
	store BucketStore
	tools ToolRepository
	news  NewsRepository
	now   func() time.Time

	mu       sync.Mutex
	inflight map[string]bool
	// gens counts mutations per bucket. A fetch that spans a mutation is not cached.
	gens  map[string]uint64
	locks map[string]*sync.Mutex
	wg    sync.WaitGroup
}

func NewClient(store BucketStore, tools ToolRepository, news NewsRepository) *Client {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Client{
		store:    store,
		tools:    tools,
		news:     news,
		now:      time.Now,
		inflight: make(map[string]bool),
		gens:     make(map[string]uint64),
		locks: map[string]*sync.Mutex{
			BucketTools: {},
			BucketNews:  {},
		},
	}
}

// Disabled returns a client for when no remote database is configured.
func Disabled() *Client {
	return NewClient(nil, nil, nil)
}

func (c *Client) Enabled() bool {
	return c != nil && c.tools != nil && c.news != nil
}

// Wait blocks until background refreshes finish.
func (c *Client) Wait() {
	c.wg.Wait()
}

func (c *Client) Tools(ctx context.Context) ([]model.Tool, error) {
	if !c.Enabled() {
		return []model.Tool{}, nil
	}
	return read(ctx, c, BucketTools, c.tools.List)
}

func (c *Client) News(ctx context.Context) ([]model.NewsArticle, error) {
	if !c.Enabled() {
		return []model.NewsArticle{}, nil
	}
	return read(ctx, c, BucketNews, c.news.List)
}

func (c *Client) AddTool(ctx context.Context, tool *model.Tool) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if err := c.tools.Insert(ctx, tool); err != nil {
		return err
	}
	c.invalidate(ctx, BucketTools)
	return nil
}

func (c *Client) UpdateTool(ctx context.Context, id string, tool *model.Tool) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if err := c.tools.Update(ctx, id, tool); err != nil {
		return err
	}
	c.invalidate(ctx, BucketTools)
	return nil
}

func (c *Client) SetToolSlides(ctx context.Context, id string, slides []model.Slide) error {
	return c.setToolContent(ctx, func(ctx context.Context) error { return c.tools.SetSlides(ctx, id, slides) })
}

func (c *Client) SetToolTutorial(ctx context.Context, id string, tutorial []model.TutorialSection) error {
	return c.setToolContent(ctx, func(ctx context.Context) error { return c.tools.SetTutorial(ctx, id, tutorial) })
}

func (c *Client) SetToolCourse(ctx context.Context, id string, course *model.Course) error {
	return c.setToolContent(ctx, func(ctx context.Context) error { return c.tools.SetCourse(ctx, id, course) })
}

func (c *Client) setToolContent(ctx context.Context, set func(context.Context) error) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if err := set(ctx); err != nil {
		return err
	}
	c.invalidate(ctx, BucketTools)
	return nil
}

func (c *Client) DeleteTool(ctx context.Context, id string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return optimisticDelete(ctx, c, BucketTools, id, func(t model.Tool) string { return t.ID }, c.tools.Delete)
}

func (c *Client) AddNews(ctx context.Context, article *model.NewsArticle) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if err := c.news.Insert(ctx, article); err != nil {
		return err
	}
	c.invalidate(ctx, BucketNews)
	return nil
}

func (c *Client) UpdateNews(ctx context.Context, id string, article *model.NewsArticle) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	if err := c.news.Update(ctx, id, article); err != nil {
		return err
	}
	c.invalidate(ctx, BucketNews)
	return nil
}

func (c *Client) DeleteNews(ctx context.Context, id string) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	return optimisticDelete(ctx, c, BucketNews, id, func(a model.NewsArticle) string { return a.ID }, c.news.Delete)
}

func read[T any](ctx context.Context, c *Client, bucket string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	entry, err := c.store.Get(ctx, bucket)
	if err != nil {
		slog.Warn("error reading cache", "bucket", bucket, "error", err)
		entry = nil
	}

	if entry != nil && !entry.Invalidated {
		var items []T
		if err := json.Unmarshal(entry.Data, &items); err == nil {
			age := c.now().Sub(entry.UpdatedAt)
			if age < StaleTime {
				metrics.CacheLookups.WithLabelValues(bucket, "fresh").Inc()
				return items, nil
			}
			if age < GCTime {
				metrics.CacheLookups.WithLabelValues(bucket, "stale").Inc()
				refreshInBackground(ctx, c, bucket, fetch)
				return items, nil
			}
		}
	}

	metrics.CacheLookups.WithLabelValues(bucket, "miss").Inc()
	return load(ctx, c, bucket, fetch)
}

// load fetches a bucket and caches the result unless a mutation settled while
// the fetch was in flight. In that case the mutation's invalidation stands.
func load[T any](ctx context.Context, c *Client, bucket string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	gen := c.generation(bucket)
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	lock := c.locks[bucket]
	lock.Lock()
	defer lock.Unlock()
	if c.generation(bucket) != gen {
		slog.Debug("discarding fetch overtaken by a mutation", "bucket", bucket)
		return items, nil
	}
	c.write(ctx, bucket, items, c.now())
	return items, nil
}

// refreshInBackground refetches a stale bucket. At most one refresh per bucket runs at a time.
func refreshInBackground[T any](ctx context.Context, c *Client, bucket string, fetch func(context.Context) ([]T, error)) {
	c.mu.Lock()
	if c.inflight[bucket] {
		c.mu.Unlock()
		return
	}
	c.inflight[bucket] = true
	c.mu.Unlock()

	bg := context.WithoutCancel(ctx)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.inflight, bucket)
			c.mu.Unlock()
		}()

		if _, err := load(bg, c, bucket, fetch); err != nil {
			slog.Error("error refreshing cache", "bucket", bucket, "error", err)
		}
	}()
}

// optimisticDelete removes id from the cached list before calling the backend,
// restores the previous list if the backend fails and invalidates the bucket either way.
func optimisticDelete[T any](ctx context.Context, c *Client, bucket, id string, idOf func(T) string, del func(context.Context, string) error) error {
	lock := c.locks[bucket]
	lock.Lock()
	defer lock.Unlock()
	c.bump(bucket)

	snapshot, err := c.store.Get(ctx, bucket)
	if err != nil {
		slog.Warn("error reading cache before delete", "bucket", bucket, "error", err)
		snapshot = nil
	}

	if snapshot != nil {
		var items []T
		if err := json.Unmarshal(snapshot.Data, &items); err == nil {
			kept := make([]T, 0, len(items))
			for _, it := range items {
				if idOf(it) != id {
					kept = append(kept, it)
				}
			}
			c.write(ctx, bucket, kept, snapshot.UpdatedAt)
		}
	}

	delErr := del(ctx, id)
	if delErr != nil && snapshot != nil {
		if err := c.store.Set(ctx, bucket, *snapshot); err != nil {
			slog.Error("error restoring cache after failed delete", "bucket", bucket, "error", err)
		}
		metrics.CacheRollbacks.WithLabelValues(bucket).Inc()
	}

	c.invalidateLocked(ctx, bucket)
	return delErr
}

func (c *Client) invalidate(ctx context.Context, bucket string) {
	lock := c.locks[bucket]
	lock.Lock()
	defer lock.Unlock()
	c.invalidateLocked(ctx, bucket)
}

// invalidateLocked marks the entry so the next read refetches. The data is kept.
func (c *Client) invalidateLocked(ctx context.Context, bucket string) {
	c.bump(bucket)
	entry, err := c.store.Get(ctx, bucket)
	if err != nil || entry == nil {
		return
	}
	entry.Invalidated = true
	if err := c.store.Set(ctx, bucket, *entry); err != nil {
		slog.Error("error invalidating cache", "bucket", bucket, "error", err)
	}
}

func (c *Client) generation(bucket string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[bucket]
}

func (c *Client) bump(bucket string) {
	c.mu.Lock()
	c.gens[bucket]++
	c.mu.Unlock()
}

func (c *Client) write(ctx context.Context, bucket string, items any, updatedAt time.Time) {
	raw, err := json.Marshal(items)
	if err != nil {
		slog.Error("error encoding cache entry", "bucket", bucket, "error", err)
		return
	}
	if err := c.store.Set(ctx, bucket, Entry{Data: raw, UpdatedAt: updatedAt}); err != nil {
		slog.Warn("error writing cache", "bucket", bucket, "error", err)
	}
}
