package whitelist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"hostgate/internal/constants"
	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/metrics"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Source() string {
	return constants.SourceTypePostgres
}

func (r *PostgresRepository) LoadPatterns(ctx context.Context) ([]string, error) {
	query := `
		SELECT pattern
		FROM hostname_rules
		WHERE enabled = true
		ORDER BY position ASC, id ASC
	`

	start := time.Now()
	patterns, err := r.query(ctx, query)
	metrics.ObserveDatabaseQueryDuration("postgres", "load_patterns", time.Since(start))
	if err != nil {
		metrics.IncDatabaseQuery("postgres", "load_patterns", "error")
		return nil, apperrors.ErrRuleSource.WithCause(err)
	}
	metrics.IncDatabaseQuery("postgres", "load_patterns", "success")
	return patterns, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var patterns []string
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		if rule, ok := parseRuleLine(raw); ok {
			patterns = append(patterns, rule)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return patterns, nil
}

// AddPattern appends an enabled rule. Adding an existing pattern re-enables it.
func (r *PostgresRepository) AddPattern(ctx context.Context, pattern string) error {
	query := `
		INSERT INTO hostname_rules (pattern, position)
		VALUES ($1, COALESCE((SELECT MAX(position) + 1 FROM hostname_rules), 0))
		ON CONFLICT (pattern) DO UPDATE SET enabled = true, updated_at = NOW()
	`
	if _, err := r.db.ExecContext(ctx, query, pattern); err != nil {
		metrics.IncDatabaseQuery("postgres", "add_pattern", "error")
		return apperrors.ErrRuleSource.WithCause(fmt.Errorf("failed to insert rule: %w", err))
	}
	metrics.IncDatabaseQuery("postgres", "add_pattern", "success")
	return nil
}

func (r *PostgresRepository) RemovePattern(ctx context.Context, pattern string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM hostname_rules WHERE pattern = $1`, pattern)
	if err != nil {
		metrics.IncDatabaseQuery("postgres", "remove_pattern", "error")
		return apperrors.ErrRuleSource.WithCause(fmt.Errorf("failed to delete rule: %w", err))
	}
	metrics.IncDatabaseQuery("postgres", "remove_pattern", "success")

	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return apperrors.ErrNotFound.WithMessage(fmt.Sprintf("rule %q not found", pattern))
	}
	return nil
}
