package cart

import (
	"context"
	"errors"

	"github.com/alvin669/prickleys-store/internal/domain"
)

var ErrSnapshotNotFound = errors.New("cart snapshot not found")

// Storage is the durable key-value slot the cart persists into. Consumers
// define this interface, not the Redis implementation; any medium that can
// load and save a snapshot works (Redis, Mongo, memory).
type Storage interface {
	Load(ctx context.Context) (*domain.CartSnapshot, error)
	Save(ctx context.Context, snapshot *domain.CartSnapshot) error
}
