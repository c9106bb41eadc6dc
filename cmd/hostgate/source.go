package main

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"hostgate/internal/config"
	"hostgate/internal/constants"
	"hostgate/internal/whitelist"
	"hostgate/pkg/bootstrap"
	"hostgate/pkg/migrations"
)

// ruleSource is the configured rule repository plus the connections backing it.
type ruleSource struct {
	repo  whitelist.Repository
	file  string
	db    *sql.DB
	redis *redis.Client
}

func openRuleSource(ctx context.Context, cfg *config.Config, configPath string, dc *bootstrap.DatabaseConnector) (*ruleSource, error) {
	switch strings.ToLower(cfg.Whitelist.Source) {
	case constants.SourceTypePostgres:
		db, err := dc.InitPostgreSQL(ctx)
		if err != nil {
			return nil, err
		}
		if cfg.Database.RunMigrations {
			if err := migrations.RunPostgres(db); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		return &ruleSource{repo: whitelist.NewPostgresRepository(db), db: db}, nil

	case constants.SourceTypeRedis:
		client, err := dc.InitRedis(ctx)
		if err != nil {
			return nil, err
		}
		return &ruleSource{repo: whitelist.NewRedisRepository(client, cfg.Database.Redis.RulesKey), redis: client}, nil

	default:
		path := config.ResolvePath(configPath, cfg.Whitelist.File)
		if err := whitelist.WriteDefaultRules(path); err != nil {
			return nil, err
		}
		return &ruleSource{repo: whitelist.NewFileRepository(path), file: path}, nil
	}
}

func (s *ruleSource) close(dc *bootstrap.DatabaseConnector) []error {
	if s == nil {
		return nil
	}
	return dc.ShutdownDatabases(s.redis, s.db)
}
