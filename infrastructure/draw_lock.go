package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

// DrawAdvisoryLock is a best-effort cross-instance lock on a draw date.
// It only saves redundant work when several worker instances poll the same
// dates; settlement correctness comes from the database row lock, not from
// this.
type DrawAdvisoryLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDrawAdvisoryLock creates an advisory lock backed by Redis. Returns nil
// when addr is empty, which callers treat as "always acquired".
func NewDrawAdvisoryLock(addr, password string, ttl time.Duration) *DrawAdvisoryLock {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})

	return &DrawAdvisoryLock{
		client: client,
		ttl:    ttl,
	}
}

// TryAcquire attempts to claim the lock for a draw date. Returns false when
// another instance holds it. Redis errors are logged and reported as
// acquired so a Redis outage never stalls settlement.
func (l *DrawAdvisoryLock) TryAcquire(ctx context.Context, drawDate time.Time) bool {
	if l == nil {
		return true
	}

	key := lockKey(drawDate)
	ok, err := l.client.SetNX(ctx, key, "locked", l.ttl).Result()
	if err != nil {
		log.WithFields(log.Fields{
			"key":   key,
			"error": err,
		}).Warn("Advisory lock check failed, proceeding without it")
		return true
	}

	return ok
}

// Release drops the lock for a draw date
func (l *DrawAdvisoryLock) Release(ctx context.Context, drawDate time.Time) {
	if l == nil {
		return
	}

	if err := l.client.Del(ctx, lockKey(drawDate)).Err(); err != nil {
		log.WithError(err).Warn("Failed to release advisory lock")
	}
}

// Close shuts down the Redis connection
func (l *DrawAdvisoryLock) Close() error {
	if l == nil {
		return nil
	}
	return l.client.Close()
}

func lockKey(drawDate time.Time) string {
	return fmt.Sprintf("zlpix:settle:%s", drawDate.Format("2006-01-02"))
}
