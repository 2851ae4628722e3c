package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/alvin669/prickleys-store/internal/checkout"
	"github.com/alvin669/prickleys-store/internal/domain"
)

// CheckoutFlow is the slice of the checkout state machine the gateway needs.
type CheckoutFlow interface {
	State() domain.CheckoutState
	Customer() domain.CustomerInfo
	Open() error
	SetCustomer(info domain.CustomerInfo) error
	Cancel() error
	Submit(ctx context.Context) (*domain.Order, error)
	Retry(ctx context.Context) (*domain.Order, error)
}

type CheckoutHandler struct {
	flow    CheckoutFlow
	timeout time.Duration
}

func NewCheckoutHandler(flow CheckoutFlow, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		flow:    flow,
		timeout: timeout,
	}
}

type CheckoutStateDTO struct {
	State    string              `json:"state"`
	Customer domain.CustomerInfo `json:"customer"`
}

type OrderResponseDTO struct {
	ID        string              `json:"id"`
	Customer  domain.CustomerInfo `json:"customer"`
	Items     []domain.OrderItem  `json:"items"`
	Total     float64             `json:"total"`
	OrderDate string              `json:"orderDate"`
}

func orderDTO(order *domain.Order) OrderResponseDTO {
	return OrderResponseDTO{
		ID:        order.ID.String(),
		Customer:  order.Customer,
		Items:     order.Items,
		Total:     order.Total,
		OrderDate: order.CreatedAt.Format(time.RFC3339),
	}
}

func (h *CheckoutHandler) stateDTO() CheckoutStateDTO {
	return CheckoutStateDTO{
		State:    h.flow.State().String(),
		Customer: h.flow.Customer(),
	}
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.stateDTO())
}

// POST /api/v1/checkout/open
func (h *CheckoutHandler) Open(w http.ResponseWriter, r *http.Request) {
	if err := h.flow.Open(); err != nil {
		if errors.Is(err, checkout.ErrEmptyCart) {
			respondError(w, http.StatusConflict, "empty_cart", "cannot checkout an empty cart")
			return
		}
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.stateDTO())
}

// PUT /api/v1/checkout/customer
func (h *CheckoutHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var info domain.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.flow.SetCustomer(info); err != nil {
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.stateDTO())
}

// POST /api/v1/checkout/submit
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.flow.Submit(ctx)
	if err != nil {
		h.respondSubmitError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, orderDTO(order))
}

// POST /api/v1/checkout/retry
func (h *CheckoutHandler) Retry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.flow.Retry(ctx)
	if err != nil {
		h.respondSubmitError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, orderDTO(order))
}

// POST /api/v1/checkout/cancel
func (h *CheckoutHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if err := h.flow.Cancel(); err != nil {
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, h.stateDTO())
}

func (h *CheckoutHandler) respondSubmitError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *checkout.ValidationError
	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":          "customer info incomplete",
			"code":           "missing_fields",
			"missing_fields": validationErr.Missing,
		})
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cannot submit an empty cart")
	case errors.Is(err, checkout.ErrIllegalTransition), errors.Is(err, checkout.ErrNoPendingOrder):
		respondError(w, http.StatusConflict, "illegal_transition", err.Error())
	default:
		log.Printf("order submission failed (request-id %s): %v", getRequestID(r.Context()), err)
		respondError(w, http.StatusBadGateway, "sink_failure", "order hand-off failed, retry or cancel")
	}
}
