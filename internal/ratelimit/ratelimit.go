package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/realakshayk/good-eats/internal"
)

// Window expiries run slightly past the window ceiling so counters for a
// window that just closed are still readable while stragglers finish.
const (
	minuteExpiry = 70 * time.Second
	hourExpiry   = 3700 * time.Second
)

// CounterStore is the authoritative counter backend. Incr must be atomic
// across concurrent callers sharing the same key.
type CounterStore interface {
	Incr(ctx context.Context, key string, expiry time.Duration) (int64, error)
}

// Decision is the outcome of admitting one request.
type Decision struct {
	Allowed      bool
	Remaining    int
	ResetSeconds int
	RetryAfter   int // seconds; set only on rejection
}

// Limiter applies fixed-window counters per caller for the current
// minute and the current hour. Fixed windows are an approximation:
// bursts at window boundaries can momentarily exceed the nominal rate.
type Limiter struct {
	store  CounterStore
	plans  map[string]internal.Plan
	logger internal.Logger
	now    func() time.Time
}

func NewLimiter(store CounterStore, plans map[string]internal.Plan, logger internal.Logger) *Limiter {
	return &Limiter{store: store, plans: plans, logger: logger, now: time.Now}
}

// DefaultPlans is the static plan table.
func DefaultPlans() map[string]internal.Plan {
	return map[string]internal.Plan{
		"free":       {Name: "free", PerMinute: 10, PerHour: 100},
		"premium":    {Name: "premium", PerMinute: 60, PerHour: 1000},
		"enterprise": {Name: "enterprise", PerMinute: 300, PerHour: 10000},
	}
}

// Admit counts the request against both windows and rejects it when
// either counter exceeds its plan limit. The earliest-resetting exceeded
// window determines the retry-after hint. A counter-store outage fails
// open with a warning rather than taking the API down.
func (l *Limiter) Admit(ctx context.Context, callerKey, planName string) (Decision, error) {
	plan, ok := l.plans[planName]
	if !ok {
		plan = l.plans["free"]
	}
	now := l.now()
	epoch := now.Unix()

	minuteKey := fmt.Sprintf("ratelimit:%s:m:%d", callerKey, epoch/60)
	hourKey := fmt.Sprintf("ratelimit:%s:h:%d", callerKey, epoch/3600)

	rpm, err := l.store.Incr(ctx, minuteKey, minuteExpiry)
	if err != nil {
		l.logger.Warnf("ratelimit: counter store unavailable, failing open: %v", err)
		return Decision{Allowed: true, Remaining: plan.PerMinute, ResetSeconds: 60}, nil
	}
	rph, err := l.store.Incr(ctx, hourKey, hourExpiry)
	if err != nil {
		l.logger.Warnf("ratelimit: counter store unavailable, failing open: %v", err)
		return Decision{Allowed: true, Remaining: plan.PerMinute, ResetSeconds: 60}, nil
	}

	resetMinute := int(60 - epoch%60)
	resetHour := int(3600 - epoch%3600)

	if rpm > int64(plan.PerMinute) || rph > int64(plan.PerHour) {
		retryAfter := 0
		if rpm > int64(plan.PerMinute) {
			retryAfter = resetMinute
		}
		if rph > int64(plan.PerHour) && (retryAfter == 0 || resetHour < retryAfter) {
			retryAfter = resetHour
		}
		l.logger.Warnf("ratelimit: exceeded for %s plan=%s rpm=%d rph=%d", callerKey, plan.Name, rpm, rph)
		return Decision{
			Allowed:      false,
			Remaining:    0,
			ResetSeconds: retryAfter,
			RetryAfter:   retryAfter,
		}, nil
	}

	remaining := min(plan.PerMinute-int(rpm), plan.PerHour-int(rph))
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:      true,
		Remaining:    remaining,
		ResetSeconds: min(resetMinute, resetHour),
	}, nil
}
