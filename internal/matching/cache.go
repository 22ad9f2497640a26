package matching

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	likeCountKeyFmt = "likes:received:%d"
	likeCountTTL    = 10 * time.Minute
)

// LikeCounter caches the number of likes a user has received. It is a
// best-effort layer: every method swallows redis failures so a cache
// outage degrades to store reads instead of failing requests.
type LikeCounter struct {
	rdb *redis.Client
}

func NewLikeCounter(rdb *redis.Client) *LikeCounter {
	return &LikeCounter{rdb: rdb}
}

func likeCountKey(userID int64) string {
	return fmt.Sprintf(likeCountKeyFmt, userID)
}

// GetReceived returns the cached count and whether the key was warm.
func (c *LikeCounter) GetReceived(ctx context.Context, userID int64) (int64, bool) {
	n, err := c.rdb.Get(ctx, likeCountKey(userID)).Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

// SetReceived primes the cache after a store read.
func (c *LikeCounter) SetReceived(ctx context.Context, userID int64, n int64) {
	c.rdb.Set(ctx, likeCountKey(userID), n, likeCountTTL)
}

// IncrReceived bumps a warm counter. A cold key is left cold; the next
// read will prime it from the store, which keeps the cache from drifting
// when increments race with expiry.
func (c *LikeCounter) IncrReceived(ctx context.Context, userID int64) {
	c.adjust(ctx, userID, func(p redis.Pipeliner, key string) {
		p.Incr(ctx, key)
	})
}

// DecrReceived decrements a warm counter, see IncrReceived.
func (c *LikeCounter) DecrReceived(ctx context.Context, userID int64) {
	c.adjust(ctx, userID, func(p redis.Pipeliner, key string) {
		p.Decr(ctx, key)
	})
}

func (c *LikeCounter) adjust(ctx context.Context, userID int64, op func(redis.Pipeliner, string)) {
	key := likeCountKey(userID)

	exists, err := c.rdb.Exists(ctx, key).Result()
	if err != nil || exists == 0 {
		return
	}

	pipe := c.rdb.TxPipeline()
	op(pipe, key)
	pipe.Expire(ctx, key, likeCountTTL)
	pipe.Exec(ctx)
}
