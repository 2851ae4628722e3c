package catalog

import (
	"context"
	"errors"

	"github.com/alvin669/prickleys-store/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

// Repository defines the interface for the read-only catalog feed.
// Consumers define this interface, not the SQLite implementation.
type Repository interface {
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (domain.Product, error)
	Close() error
}
