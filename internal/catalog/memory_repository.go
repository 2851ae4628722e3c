package catalog

import (
	"context"

	"github.com/alvin669/prickleys-store/internal/domain"
)

// DefaultProducts returns the fixed Prickleys handwash range. Used to seed the
// memory repository when no catalog database is configured.
func DefaultProducts() []domain.Product {
	return []domain.Product{
		{
			ID:              1,
			Name:            "PRICKLEYS Handwash",
			Scent:           "Lemon",
			Image:           "https://1drv.ms/i/c/0da266427cb7fa47/EWXwYOMZgRdBlxihws4kV6QBgl3vKXUmF2mVnBMURaVPwg?e=t7b5at",
			OriginalPrice:   300,
			DiscountedPrice: 240,
			Discount:        20,
		},
		{
			ID:              2,
			Name:            "PRICKLEYS Handwash",
			Scent:           "Lavender",
			Image:           "https://1drv.ms/i/c/0da266427cb7fa47/ETg3n7BoB_BAj4qmXpEi-woBtKNUUYAIxKNLZD5FYmPKYQ?e=V1m9t4",
			OriginalPrice:   300,
			DiscountedPrice: 240,
			Discount:        20,
		},
		{
			ID:              3,
			Name:            "PRICKLEYS Handwash",
			Scent:           "Red Fruit",
			Image:           "https://1drv.ms/i/c/0da266427cb7fa47/Ee936st2nn5AvtcQTQKtuisB9ib4zaMe3dvscC7Vm5ME1g?e=zbk3CI",
			OriginalPrice:   300,
			DiscountedPrice: 240,
			Discount:        20,
		},
	}
}

// MemoryRepository serves a fixed product list from memory.
type MemoryRepository struct {
	products []domain.Product
}

func NewMemoryRepository(products []domain.Product) *MemoryRepository {
	return &MemoryRepository{products: products}
}

func (m *MemoryRepository) GetAllProducts(_ context.Context) ([]domain.Product, error) {
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *MemoryRepository) GetProduct(_ context.Context, id int64) (domain.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Product{}, ErrProductNotFound
}

func (m *MemoryRepository) Close() error {
	return nil
}
