package redisx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sendKeyPrefix = "rl:send:"

// Limiter counts sends per caller in fixed windows shared by every
// instance of the service.
type Limiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	now    func() time.Time
}

func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: addr, DB: 0})
}

// NewLimiter fails on a non-positive limit or window.
func NewLimiter(client *redis.Client, limit int64, window time.Duration) (*Limiter, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("send rate limit must be positive, got %d", limit)
	}
	if window <= 0 {
		return nil, fmt.Errorf("send rate window must be positive, got %s", window)
	}
	return &Limiter{client: client, limit: limit, window: window, now: time.Now}, nil
}

// Allow records one hit for key and reports whether it stays under the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.windowKey(key)
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return incr.Val() <= l.limit, nil
}

func (l *Limiter) windowKey(key string) string {
	bucket := l.now().UnixNano() / int64(l.window)
	return fmt.Sprintf("%s%s:%d", sendKeyPrefix, key, bucket)
}
