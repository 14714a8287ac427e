// Package retry runs actions repeatedly according to composable strategies.
package retry

// Action is a function to be performed in a retriable manner.
type Action func() error

// Retrier retries the provided action.
type Retrier interface {
	Retry(action Action) (uint, error)
}

type retrier struct {
	strategies []Strategy
}

// NewRetrier returns a Retrier that applies the strategies, in order, after
// every failed attempt. With no strategies it retries until success.
func NewRetrier(strategies ...Strategy) Retrier {
	return &retrier{
		strategies: strategies,
	}
}

func (r *retrier) Retry(action Action) (uint, error) {
	return Retry(action, r.strategies...)
}

// Retry executes action until it succeeds or a strategy declines another
// attempt, and reports the number of attempts made.
//
// Strategies that sleep should be listed last so that filters run first.
func Retry(action Action, strategies ...Strategy) (uint, error) {
	for attempt := uint(1); ; attempt++ {
		err := action()
		if err == nil {
			return attempt, nil
		}

		for _, strategy := range strategies {
			if !strategy(attempt, err) {
				return attempt, err
			}
		}
	}
}
