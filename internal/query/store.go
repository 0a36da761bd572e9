package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Entry is one cached bucket: the JSON-encoded list plus its fetch time.
type Entry struct {
	Data        json.RawMessage `json:"data"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Invalidated bool            `json:"invalidated,omitempty"`
}

// BucketStore persists cache entries. Get returns nil, nil for an absent or expired bucket.
type BucketStore interface {
	Get(ctx context.Context, bucket string) (*Entry, error)
	Set(ctx context.Context, bucket string, e Entry) error
	Delete(ctx context.Context, bucket string) error
}

const redisKeyPrefix = "veto7:cache:"

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, ttl: GCTime}
}

func (s *RedisStore) Get(ctx context.Context, bucket string) (*Entry, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+bucket).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", bucket, err)
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("cache decode %s: %w", bucket, err)
	}
	return &e, nil
}

func (s *RedisStore) Set(ctx context.Context, bucket string, e Entry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+bucket, raw, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, bucket string) error {
	return s.client.Del(ctx, redisKeyPrefix+bucket).Err()
}

type memoryItem struct {
	entry   Entry
	expires time.Time
}

// MemoryStore keeps entries in process. Used when Redis is not configured.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), ttl: GCTime, now: time.Now}
}

func (s *MemoryStore) Get(ctx context.Context, bucket string) (*Entry, error) {
	s.mu.RLock()
	item, ok := s.items[bucket]
	s.mu.RUnlock()

	if !ok || !s.now().Before(item.expires) {
		return nil, nil
	}
	e := item.entry
	return &e, nil
}

func (s *MemoryStore) Set(ctx context.Context, bucket string, e Entry) error {
	s.mu.Lock()
	s.items[bucket] = memoryItem{entry: e, expires: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, bucket string) error {
	s.mu.Lock()
	delete(s.items, bucket)
	s.mu.Unlock()
	return nil
}
