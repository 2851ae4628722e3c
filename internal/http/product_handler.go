package http

import (
	"context"
	"net/http"
	"time"

	"github.com/alvin669/prickleys-store/internal/domain"
)

// CatalogService is the slice of the catalog the gateway needs.
type CatalogService interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Product(ctx context.Context, id int64) (domain.Product, error)
}

type ProductHandler struct {
	catalog CatalogService
	timeout time.Duration
}

func NewProductHandler(catalog CatalogService, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Scent           string  `json:"scent"`
	Image           string  `json:"image"`
	OriginalPrice   float64 `json:"originalPrice"`
	DiscountedPrice float64 `json:"discountedPrice"`
	Discount        int     `json:"discount"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

// GET /api/v1/products
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	res, err := h.catalog.Products(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "failed to load products")
		return
	}

	products := make([]ProductResponse, len(res))
	for i, p := range res {
		products[i] = ProductResponse{
			ID:              p.ID,
			Name:            p.Name,
			Scent:           p.Scent,
			Image:           p.Image,
			OriginalPrice:   p.OriginalPrice,
			DiscountedPrice: p.DiscountedPrice,
			Discount:        p.Discount,
		}
	}

	respondJSON(w, http.StatusOK, &ProductsResponse{Products: products})
}
