package service

import (
	"context"
	"strconv"

	"github.com/sampark/sampark/internal/cache"
	"github.com/sampark/sampark/internal/config"
	"github.com/sirupsen/logrus"
)

// RateLimiter bounds passcode issuance per identity with a Redis counter.
// The window is anchored to the first attempt: the expiry is set only when
// the counter is created, and the count resets only when the key expires.
type RateLimiter struct {
	store  *cache.Client
	cfg    config.RateLimitConfig
	logger *logrus.Logger
}

type RateLimitResult struct {
	Allowed   bool
	Remaining int
}

func NewRateLimiter(store *cache.Client, cfg config.RateLimitConfig, logger *logrus.Logger) *RateLimiter {
	return &RateLimiter{
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

func rateLimitKey(email string) string {
	return "otp:ratelimit:" + email
}

// CheckAndConsume spends one issuance attempt for the identity. A denied
// check is free: the counter is only incremented when the attempt is
// allowed. Store failures follow the configured policy: fail-open returns
// the full budget so an outage never locks out legitimate users, fail-closed
// denies.
func (l *RateLimiter) CheckAndConsume(ctx context.Context, email string) RateLimitResult {
	key := rateLimitKey(email)

	current, _, err := l.store.Get(ctx, key)
	if err != nil {
		return l.storeFailure(err)
	}

	count := 0
	if current != "" {
		count, _ = strconv.Atoi(current)
	}

	if count >= l.cfg.MaxAttempts {
		return RateLimitResult{Allowed: false, Remaining: 0}
	}

	newCount, err := l.store.Incr(ctx, key)
	if err != nil {
		return l.storeFailure(err)
	}

	// First hit in a fresh window anchors the expiry to it.
	if newCount == 1 {
		if err := l.store.Expire(ctx, key, l.cfg.Window); err != nil {
			return l.storeFailure(err)
		}
	}

	remaining := l.cfg.MaxAttempts - int(newCount)
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{Allowed: true, Remaining: remaining}
}

func (l *RateLimiter) storeFailure(err error) RateLimitResult {
	if l.cfg.FailOpen {
		l.logger.WithError(err).Warn("Rate limit store unavailable, failing open")
		return RateLimitResult{Allowed: true, Remaining: l.cfg.MaxAttempts}
	}
	l.logger.WithError(err).Error("Rate limit store unavailable, failing closed")
	return RateLimitResult{Allowed: false, Remaining: 0}
}
