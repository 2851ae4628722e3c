package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alvin669/prickleys-store/internal/checkout"
	"github.com/alvin669/prickleys-store/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockFlow struct {
	state    domain.CheckoutState
	customer domain.CustomerInfo

	openErr     error
	setErr      error
	cancelErr   error
	submitOrder *domain.Order
	submitErr   error
	retryOrder  *domain.Order
	retryErr    error
}

func (m *mockFlow) State() domain.CheckoutState   { return m.state }
func (m *mockFlow) Customer() domain.CustomerInfo { return m.customer }
func (m *mockFlow) Open() error                   { return m.openErr }
func (m *mockFlow) Cancel() error                 { return m.cancelErr }

func (m *mockFlow) SetCustomer(info domain.CustomerInfo) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.customer = info
	return nil
}

func (m *mockFlow) Submit(context.Context) (*domain.Order, error) {
	return m.submitOrder, m.submitErr
}

func (m *mockFlow) Retry(context.Context) (*domain.Order, error) {
	return m.retryOrder, m.retryErr
}

func setupCheckoutRouter(flow *mockFlow) *chi.Mux {
	handler := NewCheckoutHandler(flow, 5*time.Second)
	r := chi.NewRouter()
	r.Get("/api/v1/checkout", handler.GetState)
	r.Post("/api/v1/checkout/open", handler.Open)
	r.Put("/api/v1/checkout/customer", handler.SetCustomer)
	r.Post("/api/v1/checkout/submit", handler.Submit)
	r.Post("/api/v1/checkout/retry", handler.Retry)
	r.Post("/api/v1/checkout/cancel", handler.Cancel)
	return r
}

func sampleOrder() *domain.Order {
	return domain.NewOrder(
		domain.CustomerInfo{Name: "Wanjiru Kamau", Email: "wanjiru@example.com", Phone: "0710980632", Address: "Nairobi"},
		[]domain.CartItem{{ProductID: 1, Name: "PRICKLEYS Handwash", Scent: "Lemon", DiscountedPrice: 240, Quantity: 2}},
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	)
}

func TestGetCheckoutState(t *testing.T) {
	flow := &mockFlow{state: domain.CheckoutStateEditing, customer: domain.CustomerInfo{Name: "Wanjiru Kamau"}}
	r := setupCheckoutRouter(flow)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/checkout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp CheckoutStateDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "EDITING", resp.State)
	assert.Equal(t, "Wanjiru Kamau", resp.Customer.Name)
}

func TestOpenCheckout_EmptyCart(t *testing.T) {
	flow := &mockFlow{state: domain.CheckoutStateIdle, openErr: checkout.ErrEmptyCart}
	r := setupCheckoutRouter(flow)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/open", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "empty_cart", resp.Code)
}

func TestSetCustomer(t *testing.T) {
	flow := &mockFlow{state: domain.CheckoutStateEditing}
	r := setupCheckoutRouter(flow)

	body := bytes.NewBufferString(`{"name":"Wanjiru Kamau","email":"wanjiru@example.com","phone":"0710980632","address":"Nairobi"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/checkout/customer", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "wanjiru@example.com", flow.customer.Email)
}

func TestSetCustomer_OutsideEditing(t *testing.T) {
	flow := &mockFlow{state: domain.CheckoutStateIdle, setErr: checkout.ErrIllegalTransition}
	r := setupCheckoutRouter(flow)

	body := bytes.NewBufferString(`{"name":"Wanjiru Kamau"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/checkout/customer", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubmit_Success(t *testing.T) {
	order := sampleOrder()
	flow := &mockFlow{state: domain.CheckoutStateSubmitted, submitOrder: order}
	r := setupCheckoutRouter(flow)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/submit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var resp OrderResponseDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, order.ID.String(), resp.ID)
	assert.Equal(t, 480.0, resp.Total)
	assert.Equal(t, "2025-06-01T12:00:00Z", resp.OrderDate)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "PRICKLEYS Handwash - Lemon", resp.Items[0].Product)
}

func TestSubmit_MissingFields(t *testing.T) {
	flow := &mockFlow{
		state:     domain.CheckoutStateEditing,
		submitErr: &checkout.ValidationError{Missing: []string{"phone", "address"}},
	}
	r := setupCheckoutRouter(flow)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/submit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var resp struct {
		Code          string   `json:"code"`
		MissingFields []string `json:"missing_fields"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "missing_fields", resp.Code)
	assert.Equal(t, []string{"phone", "address"}, resp.MissingFields)
}

func TestSubmit_SinkFailure(t *testing.T) {
	flow := &mockFlow{state: domain.CheckoutStateFailed, submitErr: errors.New("order hand-off failed: smtp down")}
	r := setupCheckoutRouter(flow)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/submit", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadGateway, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "sink_failure", resp.Code)
}

func TestRetry_Success(t *testing.T) {
	order := sampleOrder()
	flow := &mockFlow{state: domain.CheckoutStateSubmitted, retryOrder: order}
	r := setupCheckoutRouter(flow)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/retry", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
}

func TestRetry_NothingPending(t *testing.T) {
	flow := &mockFlow{state: domain.CheckoutStateIdle, retryErr: checkout.ErrNoPendingOrder}
	r := setupCheckoutRouter(flow)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/retry", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCancel(t *testing.T) {
	flow := &mockFlow{state: domain.CheckoutStateIdle}
	r := setupCheckoutRouter(flow)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/cancel", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
