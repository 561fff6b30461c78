package vybe

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// BackoffPolicy yields the wait before each reconnect attempt. NextBackOff
// returning backoff.Stop ends the supervisor. Reset is called whenever an
// attempt reaches the streaming state.
type BackoffPolicy = backoff.BackOff

// ConstantBackoff waits d before every attempt, forever.
func ConstantBackoff(d time.Duration) BackoffPolicy {
	return backoff.NewConstantBackOff(d)
}

// ExponentialBackoff doubles the wait from initial up to max, without jitter.
func ExponentialBackoff(initial, max time.Duration) BackoffPolicy {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = max
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// LinearBackoff waits base, then base+step, base+2*step, ... capped at max.
// A zero max leaves the wait uncapped.
func LinearBackoff(base, step, max time.Duration) BackoffPolicy {
	return &linearBackOff{base: base, step: step, max: max}
}

// WithMaxAttempts stops the policy after n consecutive attempts.
func WithMaxAttempts(policy BackoffPolicy, n int) BackoffPolicy {
	if n <= 0 {
		return policy
	}
	return backoff.WithMaxRetries(policy, uint64(n))
}

type linearBackOff struct {
	base, step, max time.Duration
	n               int64
}

func (l *linearBackOff) NextBackOff() time.Duration {
	d := l.base + time.Duration(l.n)*l.step
	l.n++
	if l.max > 0 && d > l.max {
		return l.max
	}
	return d
}

func (l *linearBackOff) Reset() {
	l.n = 0
}
