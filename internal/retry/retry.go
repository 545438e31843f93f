// Package retry waits for readiness conditions that have no guaranteed
// upper bound, giving up after a fixed number of checks.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrTimeout is returned when a condition is still unmet after the last attempt.
var ErrTimeout = errors.New("condition not met before attempts ran out")

var errNotReady = errors.New("not ready")

// Policy describes how often a condition is re-checked.
type Policy struct {
	Initial     time.Duration // delay before the second check
	Multiplier  float64       // growth factor between delays; values < 1 mean a fixed delay
	MaxInterval time.Duration // cap on a single delay; 0 means no cap
	MaxAttempts int           // total checks, including the first; values < 1 mean one check
}

// Until calls ready until it reports true. The first check happens
// immediately. It returns ErrTimeout (wrapped) once MaxAttempts checks have
// failed, or the context error if ctx ends first.
func Until(ctx context.Context, p Policy, ready func() bool) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	op := func() error {
		if ready() {
			return nil
		}
		return errNotReady
	}

	err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(p.backOff(), uint64(attempts-1)), ctx))
	if errors.Is(err, errNotReady) {
		return fmt.Errorf("%w after %d attempts", ErrTimeout, attempts)
	}
	return err
}

func (p Policy) backOff() *backoff.ExponentialBackOff {
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	maxInterval := p.MaxInterval
	if maxInterval <= 0 {
		maxInterval = time.Duration(1<<63 - 1)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.Initial
	b.Multiplier = mult
	b.RandomizationFactor = 0
	b.MaxInterval = maxInterval
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
