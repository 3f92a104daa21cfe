// Package cache stores computed dashboard payloads so repeated reads skip
// the aggregation queries. Entries are invalidated on writes.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dashboardKeyPrefix = "fitcoach:dashboard:"

// ErrMiss is returned by Get when no entry exists.
var ErrMiss = errors.New("cache miss")

type SummaryCache interface {
	Get(ctx context.Context, studentID primitive.ObjectID, dst any) error
	Set(ctx context.Context, studentID primitive.ObjectID, value any) error
	Invalidate(ctx context.Context, studentID primitive.ObjectID) error
}

type RedisSummaryCache struct {
	redisClient *redis.Client
	ttl         time.Duration
}

func NewRedisSummaryCache(redisClient *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func DashboardKey(studentID primitive.ObjectID) string {
	return dashboardKeyPrefix + studentID.Hex()
}

func (c *RedisSummaryCache) Get(ctx context.Context, studentID primitive.ObjectID, dst any) error {
	raw, err := c.redisClient.Get(ctx, DashboardKey(studentID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(raw), dst)
}

func (c *RedisSummaryCache) Set(ctx context.Context, studentID primitive.ObjectID, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.redisClient.Set(ctx, DashboardKey(studentID), string(payload), c.ttl).Err()
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, studentID primitive.ObjectID) error {
	return c.redisClient.Del(ctx, DashboardKey(studentID)).Err()
}

// NoopSummaryCache is used when Redis is not configured; every Get misses.
type NoopSummaryCache struct{}

func (NoopSummaryCache) Get(context.Context, primitive.ObjectID, any) error { return ErrMiss }
func (NoopSummaryCache) Set(context.Context, primitive.ObjectID, any) error { return nil }
func (NoopSummaryCache) Invalidate(context.Context, primitive.ObjectID) error {
	return nil
}
