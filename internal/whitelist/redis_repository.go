package whitelist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"hostgate/internal/constants"
	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/metrics"
)

// RedisRepository keeps the rules in a Redis list so several proxies can share them.
type RedisRepository struct {
	client *redis.Client
	key    string
}

func NewRedisRepository(client *redis.Client, key string) *RedisRepository {
	if key == "" {
		key = constants.DefaultRedisRulesKey
	}
	return &RedisRepository{client: client, key: key}
}

func (r *RedisRepository) Source() string {
	return constants.SourceTypeRedis
}

func (r *RedisRepository) LoadPatterns(ctx context.Context) ([]string, error) {
	start := time.Now()
	raws, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	metrics.ObserveDatabaseQueryDuration("redis", "load_patterns", time.Since(start))
	if err != nil {
		metrics.IncDatabaseQuery("redis", "load_patterns", "error")
		return nil, apperrors.ErrRuleSource.WithCause(fmt.Errorf("failed to read rules list %s: %w", r.key, err))
	}
	metrics.IncDatabaseQuery("redis", "load_patterns", "success")

	patterns := make([]string, 0, len(raws))
	for _, raw := range raws {
		if rule, ok := parseRuleLine(raw); ok {
			patterns = append(patterns, rule)
		}
	}
	return patterns, nil
}

func (r *RedisRepository) AddPattern(ctx context.Context, pattern string) error {
	pipe := r.client.TxPipeline()
	pipe.LRem(ctx, r.key, 0, pattern)
	pipe.RPush(ctx, r.key, pattern)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.ErrRuleSource.WithCause(fmt.Errorf("failed to add rule: %w", err))
	}
	return nil
}

func (r *RedisRepository) RemovePattern(ctx context.Context, pattern string) error {
	n, err := r.client.LRem(ctx, r.key, 0, pattern).Result()
	if err != nil {
		return apperrors.ErrRuleSource.WithCause(fmt.Errorf("failed to remove rule: %w", err))
	}
	if n == 0 {
		return apperrors.ErrNotFound.WithMessage(fmt.Sprintf("rule %q not found", pattern))
	}
	return nil
}
