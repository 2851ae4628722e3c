package sink

import (
	"context"
	"errors"

	"github.com/alvin669/prickleys-store/internal/domain"
)

// Multi fans an order out to several sinks. Every sink gets the order even if
// an earlier one fails; the errors are joined so submission still reports a
// failure.
type Multi []OrderSink

func (m Multi) Submit(ctx context.Context, order *domain.Order) error {
	var errs []error
	for _, s := range m {
		if err := s.Submit(ctx, order); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
