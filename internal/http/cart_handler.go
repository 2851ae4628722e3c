package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alvin669/prickleys-store/internal/catalog"
	"github.com/alvin669/prickleys-store/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CartStore is the slice of the cart store the gateway needs.
type CartStore interface {
	AddItem(ctx context.Context, product domain.Product)
	UpdateQuantity(ctx context.Context, productID int64, delta int)
	RemoveItem(ctx context.Context, productID int64)
	Clear(ctx context.Context)
	Items() []domain.CartItem
	TotalItemCount() int
	TotalPrice() float64
}

type CartHandler struct {
	store   CartStore
	catalog CatalogService
	timeout time.Duration
}

func NewCartHandler(store CartStore, catalog CatalogService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: catalog,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type CartResponseDTO struct {
	Items      []domain.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice float64           `json:"totalPrice"`
}

func (h *CartHandler) cartResponse() CartResponseDTO {
	items := h.store.Items()
	if items == nil {
		items = []domain.CartItem{}
	}
	return CartResponseDTO{
		Items:      items,
		TotalItems: h.store.TotalItemCount(),
		TotalPrice: h.store.TotalPrice(),
	}
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cartResponse())
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.catalog.Product(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) || errors.Is(err, catalog.ErrInvalidPricing) {
			respondError(w, http.StatusNotFound, "product_not_found", "no such product")
			return
		}
		respondError(w, http.StatusInternalServerError, "catalog_unavailable", "failed to load product")
		return
	}

	h.store.AddItem(ctx, product)
	respondJSON(w, http.StatusCreated, h.cartResponse())
}

// PUT /api/v1/cart/items/{product_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must be non-zero")
		return
	}

	h.store.UpdateQuantity(ctx, productID, req.Delta)
	respondJSON(w, http.StatusOK, h.cartResponse())
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	h.store.RemoveItem(ctx, productID)
	respondJSON(w, http.StatusOK, h.cartResponse())
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	h.store.Clear(ctx)
	respondJSON(w, http.StatusOK, h.cartResponse())
}
