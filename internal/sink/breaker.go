package sink

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alvin669/prickleys-store/internal/domain"
	"github.com/sony/gobreaker/v2"
)

const (
	// DefaultRetries is how many times a submission is retried before the
	// flow is told to surface a failure.
	DefaultRetries = 2

	// DefaultBackoff is the base delay between retries; attempt n waits n
	// times this long.
	DefaultBackoff = 500 * time.Millisecond
)

// Breaker wraps an OrderSink with bounded retries and a circuit breaker.
// Repeated failures open the circuit and further submissions fail fast with
// ErrSinkUnavailable instead of hammering a dead destination.
type Breaker struct {
	inner   OrderSink
	cb      *gobreaker.CircuitBreaker[struct{}]
	retries int
	backoff time.Duration
}

func NewBreaker(inner OrderSink, retries int, backoff time.Duration) *Breaker {
	if retries < 0 {
		retries = DefaultRetries
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}

	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "order-sink",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	return &Breaker{
		inner:   inner,
		cb:      cb,
		retries: retries,
		backoff: backoff,
	}
}

func (b *Breaker) Submit(ctx context.Context, order *domain.Order) error {
	var lastErr error
	for attempt := 0; attempt <= b.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(time.Duration(attempt) * b.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		_, err := b.cb.Execute(func() (struct{}, error) {
			return struct{}{}, b.inner.Submit(ctx, order)
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrSinkUnavailable, err)
		}
		lastErr = err
	}

	return fmt.Errorf("order sink failed after %d attempts: %w", b.retries+1, lastErr)
}
