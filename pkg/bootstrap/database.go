package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"hostgate/internal/config"
	"hostgate/internal/logger"
	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/retry"
)

type DatabaseConnector struct {
	Config *config.Config
	Logger logger.Logger
	Policy retry.Policy
}

func NewDatabaseConnector(cfg *config.Config, log logger.Logger) *DatabaseConnector {
	return &DatabaseConnector{
		Config: cfg,
		Logger: log,
		Policy: retry.Policy{
			MaxAttempts:     5,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     10 * time.Second,
			Multiplier:      2.0,
			MaxElapsedTime:  time.Minute,
		},
	}
}

func (dc *DatabaseConnector) InitRedis(ctx context.Context) (*redis.Client, error) {
	redisCfg := dc.Config.Database.Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", redisCfg.Host, redisCfg.Port),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	err := retry.DoWithCallback(ctx, "redis_connect", dc.Policy, func() error {
		if err := rdb.Ping(ctx).Err(); err != nil {
			return apperrors.ErrServiceUnavailable.WithCause(err).AsRetryable()
		}
		return nil
	}, dc.logRetry("redis"))
	if err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	dc.Logger.Info("Redis connected successfully")
	return rdb, nil
}

func (dc *DatabaseConnector) InitPostgreSQL(ctx context.Context) (*sql.DB, error) {
	pgCfg := dc.Config.Database.Postgres
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		pgCfg.User,
		pgCfg.Password,
		pgCfg.Host,
		pgCfg.Port,
		pgCfg.DBName,
		pgCfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = retry.DoWithCallback(ctx, "postgres_connect", dc.Policy, func() error {
		if err := db.PingContext(ctx); err != nil {
			return apperrors.ErrServiceUnavailable.WithCause(err).AsRetryable()
		}
		return nil
	}, dc.logRetry("postgres"))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	dc.Logger.Info("PostgreSQL connected successfully")
	return db, nil
}

func (dc *DatabaseConnector) logRetry(database string) func(int, error, time.Duration) {
	return func(attempt int, err error, next time.Duration) {
		dc.Logger.Warnw("Database not reachable, retrying",
			"database", database,
			"attempt", attempt,
			"next_retry", next,
			"error", err,
		)
	}
}

func (dc *DatabaseConnector) ShutdownDatabases(redis *redis.Client, postgres *sql.DB) []error {
	var errs []error

	if redis != nil {
		if err := redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close error: %w", err))
		}
	}

	if postgres != nil {
		if err := postgres.Close(); err != nil {
			errs = append(errs, fmt.Errorf("postgres close error: %w", err))
		}
	}

	return errs
}
