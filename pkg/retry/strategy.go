package retry

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/code-payments/code-token-cli/pkg/retry/backoff"
)

// Strategy decides whether another attempt should be made. Strategies may
// sleep before returning.
type Strategy func(attempts uint, err error) bool

// Limit caps the total number of attempts, the first one included.
func Limit(maxAttempts uint) Strategy {
	return func(attempts uint, _ error) bool {
		return attempts < maxAttempts
	}
}

// RetriableErrors only allows another attempt for the listed errors, wrapped
// or not.
func RetriableErrors(retriable ...error) Strategy {
	return func(_ uint, err error) bool {
		for _, target := range retriable {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

// Backoff sleeps for the delay produced by strategy, capped at maxBackoff.
func Backoff(strategy backoff.Strategy, maxBackoff time.Duration) Strategy {
	return func(attempts uint, _ error) bool {
		sleeperImpl.Sleep(capDelay(strategy(attempts), maxBackoff))
		return true
	}
}

// BackoffWithJitter is Backoff with the capped delay spread by +/- jitter,
// expressed as a fraction of the delay.
func BackoffWithJitter(strategy backoff.Strategy, maxBackoff time.Duration, jitter float64) Strategy {
	return func(attempts uint, _ error) bool {
		delay := capDelay(strategy(attempts), maxBackoff)
		spread := 1 + (rand.Float64()*2-1)*jitter
		sleeperImpl.Sleep(time.Duration(float64(delay) * spread))
		return true
	}
}

func capDelay(delay, maxDelay time.Duration) time.Duration {
	return time.Duration(math.Min(float64(maxDelay), float64(delay)))
}

type sleeper interface {
	Sleep(time.Duration)
}

type realSleeper struct{}

func (r *realSleeper) Sleep(d time.Duration) { time.Sleep(d) }

var sleeperImpl sleeper = &realSleeper{}
