package catalog

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/alvin669/prickleys-store/internal/domain"
	"golang.org/x/sync/singleflight"
)

var ErrInvalidPricing = errors.New("product pricing is invalid")

// Service fronts the catalog repository, collapsing concurrent loads and
// validating pricing on the way out. Products priced above their own original
// price are dropped from the feed; a discount label that disagrees with the
// prices is kept as display data but logged.
type Service struct {
	repo Repository
	sfg  singleflight.Group // Prevents repeated concurrent catalog loads
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Products(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do("products", func() (interface{}, error) {
		products, errGet := s.repo.GetAllProducts(ctx)
		if errGet != nil {
			return nil, errGet
		}

		valid := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if errCheck := checkPricing(p); errCheck != nil {
				log.Printf("dropping product %d from catalog: %v", p.ID, errCheck)
				continue
			}
			valid = append(valid, p)
		}
		return valid, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]domain.Product), nil
}

func (s *Service) Product(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if err := checkPricing(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func checkPricing(p domain.Product) error {
	if p.DiscountedPrice > p.OriginalPrice {
		return ErrInvalidPricing
	}
	if want := derivedDiscount(p); want != p.Discount {
		// The label is display data; a mismatch is not fatal.
		log.Printf("product %d discount label is %d%%, prices imply %d%%", p.ID, p.Discount, want)
	}
	return nil
}

func derivedDiscount(p domain.Product) int {
	if p.OriginalPrice == 0 {
		return 0
	}
	return int(math.Round(100 * (1 - p.DiscountedPrice/p.OriginalPrice)))
}
