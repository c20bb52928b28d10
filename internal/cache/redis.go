package cache

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	suggestKey = "corpus:suggest"

	// StatsKey caches the aggregated corpus statistics blob.
	StatsKey = "corpus:stats"

	statsTTL = 5 * time.Minute
)

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.client.Get(ctx, key).Bytes()
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	return c.client.Set(ctx, key, value, statsTTL).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// AddTerms indexes headwords for prefix suggestions.
func (c *RedisCache) AddTerms(ctx context.Context, words []string) error {
	if len(words) == 0 {
		return nil
	}
	members := make([]redis.Z, 0, len(words))
	for _, word := range words {
		word = strings.ToLower(strings.TrimSpace(word))
		if word == "" {
			continue
		}
		members = append(members, redis.Z{Score: 0, Member: word})
	}
	return c.client.ZAdd(ctx, suggestKey, members...).Err()
}

// Suggest returns up to limit indexed headwords starting with prefix.
func (c *RedisCache) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	return c.client.ZRangeByLex(ctx, suggestKey, &redis.ZRangeBy{
		Min:   "[" + prefix,
		Max:   "[" + prefix + "\xff",
		Count: int64(limit),
	}).Result()
}
