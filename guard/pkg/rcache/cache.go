package rcache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"snoreguard/guard/defs"
	"snoreguard/guard/pkg/report"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "summary:"

	// Only past days get cached and their summaries are immutable, so a
	// long TTL is safe.
	summaryTTL = 24 * time.Hour
)

// Cache keeps computed day summaries keyed by date so repeated requests
// for the same day skip the store and the aggregation.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

func New(ctx context.Context, cfg defs.RedisConfig, logger *zap.Logger) (*Cache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to reach redis: %w", err)
	}

	return &Cache{client: rdb, logger: logger}, nil
}

func (c *Cache) PutSummary(ctx context.Context, summary report.DaySummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	c.logger.Debug("caching day summary", zap.String("date", summary.Date))
	return c.client.Set(ctx, keyPrefix+summary.Date, data, summaryTTL).Err()
}

// GetSummary returns the cached summary for a date, or nil on a miss.
func (c *Cache) GetSummary(ctx context.Context, date string) (*report.DaySummary, error) {
	val, err := c.client.Get(ctx, keyPrefix+date).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary report.DaySummary
	if err := json.Unmarshal([]byte(val), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func (c *Cache) DeleteSummary(ctx context.Context, date string) error {
	return c.client.Del(ctx, keyPrefix+date).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
