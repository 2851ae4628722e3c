package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/alvin669/prickleys-store/internal/domain"
)

// ArchiveSink adapts the order repository to the order sink contract so that
// archiving composes with the dispatch sinks. A duplicate insert means a
// retried submission already landed, which counts as success.
type ArchiveSink struct {
	repo OrderRepository
}

func NewArchiveSink(repo OrderRepository) *ArchiveSink {
	return &ArchiveSink{repo: repo}
}

func (s *ArchiveSink) Submit(ctx context.Context, order *domain.Order) error {
	err := s.repo.CreateOrder(ctx, order)
	if err != nil && !errors.Is(err, ErrDuplicateOrder) {
		return fmt.Errorf("failed to archive order %s: %w", order.ID, err)
	}
	return nil
}
