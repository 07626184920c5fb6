// Package ratelimit tracks failed authentication attempts per user
// fingerprint and blocks further attempts past a threshold within a
// rolling window.
package ratelimit

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jrsteele09/go-fantasy-proxy/internal/errors"
)

// Limiter records failed-attempt strikes keyed by
// "{fingerprint}_{unixTimestamp}". Entries older than the window are purged
// across the whole table before every count check.
type Limiter struct {
	mu          sync.Mutex
	failures    map[string]int
	maxAttempts int
	window      time.Duration
	nowTime     func() time.Time
}

// LimiterOption defines a function type to modify the Limiter instance.
type LimiterOption func(*Limiter)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) LimiterOption {
	return func(l *Limiter) {
		l.nowTime = nowFunc
	}
}

// NewLimiter creates a limiter allowing maxAttempts failures per rolling window.
func NewLimiter(maxAttempts int, window time.Duration, options ...LimiterOption) *Limiter {
	l := &Limiter{
		failures:    make(map[string]int),
		maxAttempts: maxAttempts,
		window:      window,
		nowTime:     time.Now,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

// Check purges stale entries, then fails with ErrTooManyAttempts when the
// fingerprint has reached the failure threshold within the window.
func (l *Limiter) Check(fingerprint string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.purge()

	recent := 0
	for key := range l.failures {
		if strings.HasPrefix(key, fingerprint) {
			recent++
		}
	}

	if recent >= l.maxAttempts {
		return errors.Wrapf(errors.ErrTooManyAttempts, "%d failures within %s", recent, l.window)
	}
	return nil
}

// RecordFailure inserts a strike for the fingerprint timestamped now.
func (l *Limiter) RecordFailure(fingerprint string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := fmt.Sprintf("%s_%d", fingerprint, l.nowTime().Unix())
	l.failures[key]++
}

// purge removes entries older than the rolling window. Callers hold the lock.
func (l *Limiter) purge() {
	cutoff := l.nowTime().Add(-l.window).Unix()
	for key := range l.failures {
		idx := strings.LastIndex(key, "_")
		if idx < 0 {
			delete(l.failures, key)
			continue
		}
		var ts int64
		if _, err := fmt.Sscanf(key[idx+1:], "%d", &ts); err != nil || ts < cutoff {
			delete(l.failures, key)
		}
	}
}
