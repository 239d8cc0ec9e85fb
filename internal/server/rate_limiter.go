package server

import (
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	apperrors "github.com/Solid7731/flowclient-api/internal/errors"
	"github.com/Solid7731/flowclient-api/internal/metrics"
)

const (
	limiterCleanupEvery = 5 * time.Minute
	limiterIdleCutoff   = 10 * time.Minute
)

// PingRateLimiter caps heartbeat requests per network origin using a
// token bucket per IP. Keying is by caller address, not by the reported
// uuid: a spoofable uuid key would let one origin exhaust every bucket.
type PingRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	rate      rate.Limit
	burst     int
	cleanupAt time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewPingRateLimiter creates a limiter allowing perMinute requests per IP,
// with a full minute's burst so clients pinging in clusters are not
// penalized within their window.
func NewPingRateLimiter(perMinute int) *PingRateLimiter {
	return &PingRateLimiter{
		limiters:  make(map[string]*limiterEntry),
		rate:      rate.Limit(float64(perMinute) / 60.0),
		burst:     perMinute,
		cleanupAt: time.Now().Add(limiterCleanupEvery),
	}
}

// Allow reports whether a request from the given IP may proceed.
func (l *PingRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if time.Now().After(l.cleanupAt) {
		l.cleanup()
		l.cleanupAt = time.Now().Add(limiterCleanupEvery)
	}

	entry, exists := l.limiters[ip]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}

	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// cleanup drops buckets idle past the cutoff. Must be called with mu held.
func (l *PingRateLimiter) cleanup() {
	cutoff := time.Now().Add(-limiterIdleCutoff)
	for ip, entry := range l.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(l.limiters, ip)
		}
	}
}

// ActiveLimiters returns the number of tracked origins.
func (l *PingRateLimiter) ActiveLimiters() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.limiters)
}

// Middleware rejects over-limit requests with 429 before they reach the
// handler, so rate-limited heartbeats never touch the registry.
func (l *PingRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !l.Allow(c.RealIP()) {
				metrics.HeartbeatsTotal.WithLabelValues(metrics.OutcomeRateLimited).Inc()
				return apperrors.RateLimitedError("too many requests").WithField("ip", c.RealIP())
			}
			return next(c)
		}
	}
}
