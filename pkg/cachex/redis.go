package cachex

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thaihadefi/Innovation-Project-sub000/pkg/logx"
)

// Redis is the shared cache layer. Every operation is best effort: a Redis
// outage degrades hit rates, it never fails a request.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	value, _, ok := r.GetWithTTL(ctx, key)
	return value, ok
}

// GetWithTTL returns the payload together with its remaining TTL, so the
// layered cache can backfill the local layer without extending the expiry.
func (r *Redis) GetWithTTL(ctx context.Context, key string) ([]byte, time.Duration, bool) {
	pipe := r.client.Pipeline()
	getCmd := pipe.Get(ctx, key)
	ttlCmd := pipe.PTTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		if err != redis.Nil {
			logx.Warnf("cache: shared get failed for %s: %v", key, err)
		}
		return nil, 0, false
	}

	value, err := getCmd.Bytes()
	if err != nil {
		return nil, 0, false
	}
	ttl := ttlCmd.Val()
	if ttl <= 0 {
		return nil, 0, false
	}
	return value, ttl, true
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, tier Tier) {
	if err := r.client.Set(ctx, key, value, tier.TTL()).Err(); err != nil {
		logx.Warnf("cache: shared set failed for %s: %v", key, err)
	}
}

func (r *Redis) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		logx.Warnf("cache: shared delete failed: %v", err)
	}
}

// DeleteByPrefix walks the keyspace with SCAN and deletes matches in batches.
// SCAN keeps the eviction incremental instead of blocking Redis with KEYS.
func (r *Redis) DeleteByPrefix(ctx context.Context, prefix string) {
	iter := r.client.Scan(ctx, 0, prefix+"*", 200).Iterator()

	batch := make([]string, 0, 200)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			logx.Warnf("cache: shared prefix delete failed for %s: %v", prefix, err)
		}
		batch = batch[:0]
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			flush()
		}
	}
	flush()

	if err := iter.Err(); err != nil {
		logx.Warnf("cache: shared scan failed for %s: %v", prefix, err)
	}
}
