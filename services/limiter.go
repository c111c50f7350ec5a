package services

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UserRateLimiter is the advisory per-process budget for suggestion
// requests (default 5 per rolling 60s per user). Best-effort only: the
// external service enforces its own, authoritative policy.
type UserRateLimiter struct {
	mu       sync.Mutex
	limiters map[uint]*rate.Limiter
	every    rate.Limit
	burst    int
}

func NewUserRateLimiter(requests int, window time.Duration) *UserRateLimiter {
	if requests <= 0 {
		requests = 5
	}
	if window <= 0 {
		window = time.Minute
	}
	return &UserRateLimiter{
		limiters: make(map[uint]*rate.Limiter),
		every:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
	}
}

func (l *UserRateLimiter) Allow(userID uint) bool {
	l.mu.Lock()
	lim, ok := l.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[userID] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}
