package query

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ANOUAR90ESS/veto7/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/assert/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client)
	ctx := context.Background()

	missing, err := store.Get(ctx, BucketTools)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, missing == nil)

	updated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	err = store.Set(ctx, BucketTools, Entry{Data: json.RawMessage(`[{"id":"a"}]`), UpdatedAt: updated})
	assert.Equal(t, nil, err)
	assert.Equal(t, true, mr.Exists("veto7:cache:tools"))
	assert.Equal(t, GCTime, mr.TTL("veto7:cache:tools"))

	got, err := store.Get(ctx, BucketTools)
	assert.Equal(t, nil, err)
	assert.Equal(t, `[{"id":"a"}]`, string(got.Data))
	assert.Equal(t, true, got.UpdatedAt.Equal(updated))

	mr.FastForward(GCTime + time.Second)
	expired, err := store.Get(ctx, BucketTools)
	assert.Equal(t, nil, err)
	assert.Equal(t, true, expired == nil)
}

func TestRedisStoreDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client)
	ctx := context.Background()

	_ = store.Set(ctx, BucketNews, Entry{Data: json.RawMessage(`[]`)})
	assert.Equal(t, nil, store.Delete(ctx, BucketNews))
	assert.Equal(t, false, mr.Exists("veto7:cache:news"))
}

func TestRedisStoreBackedClient_Rollback(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := &fakeToolRepo{tools: []model.Tool{{ID: "a"}, {ID: "b"}}, delErr: errors.New("rls violation")}
	c := NewClient(NewRedisStore(client), repo, &fakeNewsRepo{})

	_, err := c.Tools(context.Background())
	assert.Equal(t, nil, err)

	err = c.DeleteTool(context.Background(), "a")

	assert.NotEqual(t, nil, err)
	assert.Equal(t, []string{"a", "b"}, cachedToolIDs(t, c))
}

func TestMemoryStoreExpiry(t *testing.T) {
	clk := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	store := NewMemoryStore()
	store.now = clk.now

	_ = store.Set(context.Background(), BucketTools, Entry{Data: json.RawMessage(`[]`)})

	clk.t = clk.t.Add(GCTime - time.Second)
	got, _ := store.Get(context.Background(), BucketTools)
	assert.Equal(t, false, got == nil)

	clk.t = clk.t.Add(2 * time.Second)
	got, _ = store.Get(context.Background(), BucketTools)
	assert.Equal(t, true, got == nil)
}
