package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserRateLimiter_BudgetExhausts(t *testing.T) {
	l := NewUserRateLimiter(5, time.Minute)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(1), "request %d should pass", i+1)
	}
	assert.False(t, l.Allow(1), "sixth request inside the window must be denied")
}

func TestUserRateLimiter_PerUserIsolation(t *testing.T) {
	l := NewUserRateLimiter(2, time.Minute)

	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))

	// User 2 has an untouched budget.
	assert.True(t, l.Allow(2))
}

func TestUserRateLimiter_Defaults(t *testing.T) {
	l := NewUserRateLimiter(0, 0)
	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(9))
	}
	assert.False(t, l.Allow(9))
}
