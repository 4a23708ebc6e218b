// Package ratelimit throttles MCP tool calls with per-tool token buckets.
package ratelimit

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLimited is returned by CheckLimit when a tool has no tokens left.
var ErrLimited = errors.New("rate limit exceeded")

// Limiter is a token bucket. Burst is both the capacity and the initial fill.
// It is safe for concurrent use.
type Limiter struct {
	mu     sync.Mutex
	rate   float64 // tokens per second
	burst  float64
	tokens float64
	last   time.Time
	now    func() time.Time
}

// NewLimiter returns a full bucket refilling at rate tokens per second.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		rate:   rate,
		burst:  float64(burst),
		tokens: float64(burst),
		now:    time.Now,
	}
}

// PerMinute returns a limiter allowing n calls per minute with the given burst.
func PerMinute(n int, burst int) *Limiter {
	return NewLimiter(float64(n)/60, burst)
}

// Allow takes one token if available.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.last.IsZero() {
		if elapsed := now.Sub(l.last).Seconds(); elapsed > 0 {
			l.tokens = min(l.burst, l.tokens+elapsed*l.rate)
		}
	}
	l.last = now

	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// ToolLimiters maps tool names to their limiters.
type ToolLimiters map[string]*Limiter

// DefaultToolLimiters returns the limits for the simulation tools.
// Division runs write a file, so they get the tighter budget.
func DefaultToolLimiters() ToolLimiters {
	return ToolLimiters{
		"simulate_divisions": PerMinute(30, 5),
		"simulate_sales":     PerMinute(60, 10),
	}
}

// CheckLimit returns ErrLimited when tool is out of tokens.
// Tools without a limiter are never limited.
func CheckLimit(limiters ToolLimiters, tool string) error {
	l, ok := limiters[tool]
	if !ok {
		return nil
	}
	if !l.Allow() {
		return fmt.Errorf("%w for %s, try again shortly", ErrLimited, tool)
	}
	return nil
}
