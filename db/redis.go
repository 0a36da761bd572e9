package db

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var Redis *redis.Client

const (
	EnrichQueueKey = "veto7:queue:enrich"
	DeadLetterKey  = "veto7:queue:failed"
	attemptsPrefix = "veto7:attempts:"
)

func ConnectRedis(ctx context.Context, redisURL string) error {
	if redisURL == "" {
		return ErrNotConfigured
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		opt = &redis.Options{Addr: redisURL}
	}

	Redis = redis.NewClient(opt)

	return Redis.Ping(ctx).Err()
}

func CloseRedis() {
	if Redis != nil {
		Redis.Close()
	}
}

func PushToQueue(ctx context.Context, queueKey string, data string) error {
	return Redis.LPush(ctx, queueKey, data).Err()
}

// PopFromQueue blocks up to timeout. An empty queue yields ("", nil).
func PopFromQueue(ctx context.Context, queueKey string, timeout time.Duration) (string, error) {
	result, err := Redis.BRPop(ctx, timeout, queueKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return result[1], nil
}

func GetQueueLength(ctx context.Context, queueKey string) (int64, error) {
	return Redis.LLen(ctx, queueKey).Result()
}

// IncrAttempts counts processing attempts for an id; counters expire after a day.
func IncrAttempts(ctx context.Context, id string) (int, error) {
	key := attemptsPrefix + id
	n, err := Redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	Redis.Expire(ctx, key, 24*time.Hour)
	return int(n), nil
}

func ClearAttempts(ctx context.Context, id string) error {
	return Redis.Del(ctx, attemptsPrefix+id).Err()
}
