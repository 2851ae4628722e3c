package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alvin669/prickleys-store/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCart struct {
	m     sync.Mutex
	items []domain.CartItem
}

func (c *mockCart) Items() []domain.CartItem {
	c.m.Lock()
	defer c.m.Unlock()
	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *mockCart) Clear(context.Context) {
	c.m.Lock()
	defer c.m.Unlock()
	c.items = nil
}

type mockSink struct {
	m      sync.Mutex
	err    error
	orders []*domain.Order
}

func (s *mockSink) Submit(_ context.Context, order *domain.Order) error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.err != nil {
		return s.err
	}
	s.orders = append(s.orders, order)
	return nil
}

func filledCart() *mockCart {
	return &mockCart{items: []domain.CartItem{
		{ProductID: 1, Name: "PRICKLEYS Handwash", Scent: "Lemon", DiscountedPrice: 240, OriginalPrice: 300, Discount: 20, Quantity: 3},
		{ProductID: 2, Name: "PRICKLEYS Handwash", Scent: "Lavender", DiscountedPrice: 240, OriginalPrice: 300, Discount: 20, Quantity: 1},
	}}
}

func fullCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{
		Name:    "Wanjiru Kamau",
		Email:   "wanjiru@example.com",
		Phone:   "0710980632",
		Address: "123 Moi Avenue, Nairobi",
	}
}

func TestOpen_EmptyCart_Rejected(t *testing.T) {
	flow := NewFlow(&mockCart{}, &mockSink{}, time.Minute)

	err := flow.Open()

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, domain.CheckoutStateIdle, flow.State())
}

func TestOpen_NonEmptyCart_EntersEditing(t *testing.T) {
	flow := NewFlow(filledCart(), &mockSink{}, time.Minute)

	require.NoError(t, flow.Open())

	assert.Equal(t, domain.CheckoutStateEditing, flow.State())
}

func TestSubmit_MissingFields_NoOrderProduced(t *testing.T) {
	snk := &mockSink{}
	flow := NewFlow(filledCart(), snk, time.Minute)
	require.NoError(t, flow.Open())

	info := fullCustomer()
	info.Phone = ""
	info.Address = ""
	require.NoError(t, flow.SetCustomer(info))

	order, err := flow.Submit(context.Background())

	require.Nil(t, order)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"phone", "address"}, validationErr.Missing)
	assert.Empty(t, snk.orders, "no order may reach the sink")
	assert.Equal(t, domain.CheckoutStateEditing, flow.State())
}

func TestSubmit_Success(t *testing.T) {
	cart := filledCart()
	snk := &mockSink{}
	flow := NewFlow(cart, snk, time.Minute)
	require.NoError(t, flow.Open())
	require.NoError(t, flow.SetCustomer(fullCustomer()))

	order, err := flow.Submit(context.Background())

	require.NoError(t, err)
	require.NotNil(t, order)

	require.Len(t, order.Items, 2)
	assert.Equal(t, "PRICKLEYS Handwash - Lemon", order.Items[0].Product)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, 240.0, order.Items[0].Price)
	assert.Equal(t, 720.0, order.Items[0].Subtotal)
	assert.Equal(t, 960.0, order.Total)
	assert.Equal(t, fullCustomer(), order.Customer)
	assert.False(t, order.CreatedAt.IsZero())

	require.Len(t, snk.orders, 1)
	assert.Empty(t, cart.Items(), "cart is cleared after hand-off")
	assert.Equal(t, domain.CheckoutStateSubmitted, flow.State())
}

func TestSubmit_OrderUnaffectedByLaterCartMutations(t *testing.T) {
	cart := filledCart()
	flow := NewFlow(cart, &mockSink{}, time.Minute)
	require.NoError(t, flow.Open())
	require.NoError(t, flow.SetCustomer(fullCustomer()))

	order, err := flow.Submit(context.Background())
	require.NoError(t, err)

	// Mutate the cart after submission; the order is a full value copy.
	cart.m.Lock()
	cart.items = []domain.CartItem{{ProductID: 9, Quantity: 7, DiscountedPrice: 1}}
	cart.m.Unlock()

	assert.Equal(t, 960.0, order.Total)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 3, order.Items[0].Quantity)
}

func TestSubmit_ReturnsToIdleAfterResetDelay(t *testing.T) {
	flow := NewFlow(filledCart(), &mockSink{}, 20*time.Millisecond)
	require.NoError(t, flow.Open())
	require.NoError(t, flow.SetCustomer(fullCustomer()))

	_, err := flow.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.CheckoutStateSubmitted, flow.State())

	assert.Eventually(t, func() bool {
		return flow.State() == domain.CheckoutStateIdle
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, domain.CustomerInfo{}, flow.Customer(), "form is reset after the confirmation")
}

func TestCancel_DuringEditing_KeepsCustomerInfo(t *testing.T) {
	flow := NewFlow(filledCart(), &mockSink{}, time.Minute)
	require.NoError(t, flow.Open())
	require.NoError(t, flow.SetCustomer(fullCustomer()))

	require.NoError(t, flow.Cancel())

	assert.Equal(t, domain.CheckoutStateIdle, flow.State())
	assert.Equal(t, fullCustomer(), flow.Customer())

	// Re-opening keeps the typed form state within the session.
	require.NoError(t, flow.Open())
	assert.Equal(t, fullCustomer(), flow.Customer())
}

func TestCancel_WhileSubmitted_Rejected(t *testing.T) {
	flow := NewFlow(filledCart(), &mockSink{}, time.Minute)
	require.NoError(t, flow.Open())
	require.NoError(t, flow.SetCustomer(fullCustomer()))
	_, err := flow.Submit(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, flow.Cancel(), ErrIllegalTransition)
}

func TestSubmit_SinkFailure_EntersFailedAndKeepsCart(t *testing.T) {
	cart := filledCart()
	snk := &mockSink{err: errors.New("smtp down")}
	flow := NewFlow(cart, snk, time.Minute)
	require.NoError(t, flow.Open())
	require.NoError(t, flow.SetCustomer(fullCustomer()))

	order, err := flow.Submit(context.Background())

	require.Nil(t, order)
	assert.Error(t, err)
	assert.Equal(t, domain.CheckoutStateFailed, flow.State())
	assert.Len(t, cart.Items(), 2, "cart must not be cleared on failure")
}

func TestRetry_AfterSinkRecovers_Succeeds(t *testing.T) {
	cart := filledCart()
	snk := &mockSink{err: errors.New("smtp down")}
	flow := NewFlow(cart, snk, time.Minute)
	require.NoError(t, flow.Open())
	require.NoError(t, flow.SetCustomer(fullCustomer()))

	_, err := flow.Submit(context.Background())
	require.Error(t, err)

	snk.m.Lock()
	snk.err = nil
	snk.m.Unlock()

	order, err := flow.Retry(context.Background())

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 960.0, order.Total)
	assert.Equal(t, domain.CheckoutStateSubmitted, flow.State())
	assert.Empty(t, cart.Items())
}

func TestRetry_WithoutFailure_Rejected(t *testing.T) {
	flow := NewFlow(filledCart(), &mockSink{}, time.Minute)

	_, err := flow.Retry(context.Background())

	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestCancel_FromFailed_DiscardsPendingOrder(t *testing.T) {
	snk := &mockSink{err: errors.New("broker down")}
	flow := NewFlow(filledCart(), snk, time.Minute)
	require.NoError(t, flow.Open())
	require.NoError(t, flow.SetCustomer(fullCustomer()))
	_, err := flow.Submit(context.Background())
	require.Error(t, err)

	require.NoError(t, flow.Cancel())
	assert.Equal(t, domain.CheckoutStateIdle, flow.State())

	// Nothing left to retry once the failed order is discarded.
	require.NoError(t, flow.Open())
	_, err = flow.Retry(context.Background())
	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestSubmit_WithoutOpening_Rejected(t *testing.T) {
	flow := NewFlow(filledCart(), &mockSink{}, time.Minute)

	_, err := flow.Submit(context.Background())

	assert.ErrorIs(t, err, ErrIllegalTransition)
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(fullCustomer()))

	missing := Validate(domain.CustomerInfo{Email: "a@b.c"})
	assert.Equal(t, []string{"name", "phone", "address"}, missing)

	assert.Equal(t, []string{"name", "email", "phone", "address"}, Validate(domain.CustomerInfo{}))
}
