package whitelist

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"hostgate/internal/config"
	"hostgate/internal/logger"
	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/metrics"
	"hostgate/pkg/models"
)

// MutableRepository is implemented by shared sources that accept rule edits.
type MutableRepository interface {
	Repository
	AddPattern(ctx context.Context, pattern string) error
	RemovePattern(ctx context.Context, pattern string) error
}

type RulesPublisher interface {
	PublishRulesUpdated(ctx context.Context, action, pattern, changedBy string) error
}

type Service struct {
	repo      Repository
	store     *Store
	reloadCfg config.ReloadConfig
	publisher RulesPublisher
	reloadMu  sync.Mutex
	logger    logger.Logger
}

func NewService(repo Repository, store *Store, reloadCfg config.ReloadConfig, log logger.Logger) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		reloadCfg: reloadCfg,
		logger:    log,
	}
}

func (s *Service) WithPublisher(p RulesPublisher) *Service {
	s.publisher = p
	return s
}

func (s *Service) Store() *Store {
	return s.store
}

func (s *Service) Source() string {
	return s.repo.Source()
}

// ReloadRules waits a random jitter, then reloads. Used for event driven reloads so
// a fleet of proxies does not hit the shared source at the same instant.
func (s *Service) ReloadRules(ctx context.Context) error {
	if err := s.applyJitter(ctx); err != nil {
		return err
	}
	return s.ReloadNow(ctx)
}

// ReloadNow loads the rules and publishes a new generation. On failure the
// current generation stays active.
func (s *Service) ReloadNow(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	source := s.repo.Source()
	start := time.Now()

	patterns, err := s.repo.LoadPatterns(ctx)
	metrics.ObserveWhitelistReloadDuration(source, time.Since(start))
	if err != nil {
		metrics.IncWhitelistReload(source, "error")
		return fmt.Errorf("failed to reload %s rules: %w", source, err)
	}

	set := s.store.Replace(patterns)
	metrics.IncWhitelistReload(source, "success")
	metrics.SetWhitelistRules(set.Len(), set.Generation())

	for _, rule := range set.rules {
		if !rule.Pattern.Valid() {
			s.logger.WarnwCtx(ctx, "Hostname pattern failed to compile and will never match",
				"pattern", rule.Raw,
			)
			continue
		}
		s.logger.InfowCtx(ctx, "Loaded hostname pattern", "pattern", rule.Raw)
	}

	s.logger.InfowCtx(ctx, "Loaded hostname patterns",
		"source", source,
		"rules_count", set.Len(),
		"generation", set.Generation(),
	)
	return nil
}

func (s *Service) applyJitter(ctx context.Context) error {
	if s.reloadCfg.JitterMaxMilliseconds <= 0 {
		return nil
	}

	jitter := time.Duration(rand.Intn(s.reloadCfg.JitterMaxMilliseconds)) * time.Millisecond
	s.logger.DebugwCtx(ctx, "Reload scheduled with jitter", "jitter_ms", jitter.Milliseconds())

	select {
	case <-time.After(jitter):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartReloader reloads on a fixed interval until ctx is done. A zero interval
// disables periodic reloads.
func (s *Service) StartReloader(ctx context.Context) error {
	if s.reloadCfg.IntervalSeconds <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(time.Duration(s.reloadCfg.IntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.ReloadNow(ctx); err != nil {
				s.logger.ErrorwCtx(ctx, "Failed to reload rules", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (s *Service) AddPattern(ctx context.Context, pattern, changedBy string) error {
	return s.mutate(ctx, models.ActionCreate, pattern, changedBy, func(repo MutableRepository, p string) error {
		return repo.AddPattern(ctx, p)
	})
}

func (s *Service) RemovePattern(ctx context.Context, pattern, changedBy string) error {
	return s.mutate(ctx, models.ActionDelete, pattern, changedBy, func(repo MutableRepository, p string) error {
		return repo.RemovePattern(ctx, p)
	})
}

func (s *Service) mutate(ctx context.Context, action, pattern, changedBy string, fn func(MutableRepository, string) error) error {
	repo, ok := s.repo.(MutableRepository)
	if !ok {
		return apperrors.ErrValidation.WithMessage(fmt.Sprintf("rule source %q is read-only", s.repo.Source()))
	}

	pattern, valid := parseRuleLine(pattern)
	if !valid || strings.ContainsAny(pattern, "\r\n") {
		return apperrors.ErrValidation.WithMessage("pattern must be a non-empty single line not starting with '#'")
	}

	if err := fn(repo, pattern); err != nil {
		return err
	}

	if err := s.ReloadNow(ctx); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRulesUpdated(ctx, action, pattern, changedBy); err != nil {
			s.logger.WarnwCtx(ctx, "Failed to publish rules update event", "error", err, "action", action)
		}
	}
	return nil
}
