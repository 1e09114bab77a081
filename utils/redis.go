package utils

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStatusStore keeps per-author chat read statuses. Read statuses are
// pure UI state and change on every delivered message, so they live in Redis
// instead of rewriting Message rows on each read.
type RedisStatusStore struct {
	client *redis.Client
}

func GetRedisStatusStore() *RedisStatusStore {
	return &RedisStatusStore{client: redis.NewClient(&redis.Options{
		Addr:     FallbackString(os.Getenv("REDIS_ADDR"), "localhost:6379"),
		Password: os.Getenv("REDIS_PASS"),
	})}
}

func seenKey(authorID string) string {
	return "chat_seen:" + authorID
}

// MarkPageSeen records that the author has seen the page up to the given
// time.
func (r *RedisStatusStore) MarkPageSeen(ctx context.Context, authorID string, page string, at time.Time) error {
	return r.client.HSet(ctx, seenKey(authorID), page, at.UnixNano()).Err()
}

// GetPagesSeenAt returns the last-seen timestamp per page for the author.
// Pages never marked are absent from the result.
func (r *RedisStatusStore) GetPagesSeenAt(ctx context.Context, authorID string, pages []string) (map[string]time.Time, error) {
	res := map[string]time.Time{}
	if len(pages) == 0 {
		return res, nil
	}
	vals, err := r.client.HMGet(ctx, seenKey(authorID), pages...).Result()
	if err != nil {
		return nil, err
	}
	for i, val := range vals {
		str, ok := val.(string)
		if !ok {
			continue
		}
		nanos, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			continue
		}
		res[pages[i]] = time.Unix(0, nanos)
	}
	return res, nil
}
