package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "hostgate/pkg/errors"
	"hostgate/pkg/metrics"
)

type RateLimitConfig struct {
	RPS             float64
	Burst           int
	CleanupInterval time.Duration
	MaxAge          time.Duration
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RPS:             50.0,
		Burst:           100,
		CleanupInterval: 5 * time.Minute,
		MaxAge:          10 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	mu       sync.Mutex
}

// Limiter keeps one token bucket per client IP.
type Limiter struct {
	config   RateLimitConfig
	mu       sync.RWMutex
	limiters map[string]*clientLimiter
}

func NewLimiter(config RateLimitConfig) *Limiter {
	return &Limiter{
		config:   config,
		limiters: make(map[string]*clientLimiter),
	}
}

// RunCleanup evicts idle clients until ctx is done.
func (l *Limiter) RunCleanup(ctx context.Context) {
	if l.config.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.evictIdle(now)
		}
	}
}

func (l *Limiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, cl := range l.limiters {
		cl.mu.Lock()
		lastSeen := cl.lastSeen
		cl.mu.Unlock()
		if now.Sub(lastSeen) > l.config.MaxAge {
			delete(l.limiters, ip)
		}
	}
}

func (l *Limiter) get(clientIP string) *clientLimiter {
	l.mu.RLock()
	cl, exists := l.limiters[clientIP]
	l.mu.RUnlock()
	if exists {
		return cl
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	cl, exists = l.limiters[clientIP]
	if !exists {
		cl = &clientLimiter{
			limiter:  rate.NewLimiter(rate.Limit(l.config.RPS), l.config.Burst),
			lastSeen: time.Now(),
		}
		l.limiters[clientIP] = cl
	}
	return cl
}

func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.RemoteIP()
		}

		cl := l.get(clientIP)
		cl.mu.Lock()
		cl.lastSeen = time.Now()
		cl.mu.Unlock()

		c.Header("X-RateLimit-Limit", strconv.Itoa(int(l.config.RPS)))

		if !cl.limiter.Allow() {
			metrics.RateLimitRequestsTotal.WithLabelValues("limited").Inc()
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(apperrors.ErrRateLimited.Status, gin.H{
				"error":      apperrors.ErrRateLimited.Message,
				"error_code": apperrors.ErrRateLimited.Code,
			})
			return
		}

		metrics.RateLimitRequestsTotal.WithLabelValues("allowed").Inc()

		remaining := int(cl.limiter.Tokens())
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}
