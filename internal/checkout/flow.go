package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/alvin669/prickleys-store/internal/domain"
	"github.com/alvin669/prickleys-store/internal/sink"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition = errors.New("illegal transition of checkout state")
	ErrNoPendingOrder    = errors.New("no failed order to retry")
)

// DefaultResetDelay is how long the Submitted confirmation stays up before
// the flow returns to Idle on its own.
const DefaultResetDelay = 5 * time.Second

// Cart is the slice of the cart store the flow reads at submission time.
// Consumers define this interface, not the cart implementation.
type Cart interface {
	Items() []domain.CartItem
	Clear(ctx context.Context)
}

// ValidationError reports which customer fields are still empty.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("customer info incomplete, missing: %v", e.Missing)
}

// Validate returns the names of the required customer fields that are empty.
func Validate(info domain.CustomerInfo) []string {
	var missing []string
	if info.Name == "" {
		missing = append(missing, "name")
	}
	if info.Email == "" {
		missing = append(missing, "email")
	}
	if info.Phone == "" {
		missing = append(missing, "phone")
	}
	if info.Address == "" {
		missing = append(missing, "address")
	}
	return missing
}

// Flow drives the checkout form through its submission lifecycle:
// Idle -> Editing -> Submitted -> Idle, with an explicit Failed state when the
// order sink rejects the hand-off. Customer info survives cancel/re-open
// within a session and is reset only after the Submitted confirmation delay.
type Flow struct {
	mu       sync.Mutex
	state    domain.CheckoutState
	customer domain.CustomerInfo
	pending  *domain.Order // kept for retry after a sink failure

	cart       Cart
	sink       sink.OrderSink
	resetDelay time.Duration
	resetTimer *time.Timer
}

func NewFlow(cart Cart, orderSink sink.OrderSink, resetDelay time.Duration) *Flow {
	if resetDelay <= 0 {
		resetDelay = DefaultResetDelay
	}
	return &Flow{
		state:      domain.CheckoutStateIdle,
		cart:       cart,
		sink:       orderSink,
		resetDelay: resetDelay,
	}
}

func (f *Flow) State() domain.CheckoutState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Customer() domain.CustomerInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customer
}

// Open moves the flow into Editing. Checkout is only reachable from a
// non-empty cart; re-opening keeps whatever customer info was already typed.
func (f *Flow) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == domain.CheckoutStateEditing {
		return nil
	}
	if !domain.CanTransitionTo(f.state, domain.CheckoutStateEditing) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, f.state, domain.CheckoutStateEditing)
	}
	if len(f.cart.Items()) == 0 {
		return ErrEmptyCart
	}

	f.state = domain.CheckoutStateEditing
	return nil
}

// SetCustomer replaces the form state. Only legal while the form is visible.
func (f *Flow) SetCustomer(info domain.CustomerInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != domain.CheckoutStateEditing {
		return fmt.Errorf("%w: cannot edit customer info in state %s", ErrIllegalTransition, f.state)
	}

	f.customer = info
	return nil
}

// Cancel closes the checkout surface without touching the cart. From Editing
// the typed customer info is kept; from Failed the pending order is discarded.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case domain.CheckoutStateEditing:
		f.state = domain.CheckoutStateIdle
	case domain.CheckoutStateFailed:
		f.pending = nil
		f.state = domain.CheckoutStateIdle
	default:
		// No close control exists in Idle or Submitted.
		return fmt.Errorf("%w: cannot cancel in state %s", ErrIllegalTransition, f.state)
	}
	return nil
}

// Submit validates the form, assembles an immutable order from the current
// cart contents and hands it to the order sink. On success the cart is
// cleared and the flow shows the Submitted confirmation until the reset delay
// fires; on sink failure the flow enters Failed and keeps the order for Retry.
func (f *Flow) Submit(ctx context.Context) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !domain.CanTransitionTo(f.state, domain.CheckoutStateSubmitted) ||
		f.state == domain.CheckoutStateFailed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, f.state, domain.CheckoutStateSubmitted)
	}

	if missing := Validate(f.customer); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	items := f.cart.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := domain.NewOrder(f.customer, items, time.Now())
	return f.handOffLocked(ctx, order)
}

// Retry re-submits the order that previously failed. The cart was never
// cleared, so the order is still an accurate snapshot.
func (f *Flow) Retry(ctx context.Context) (*domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != domain.CheckoutStateFailed {
		return nil, fmt.Errorf("%w: cannot retry in state %s", ErrIllegalTransition, f.state)
	}
	if f.pending == nil {
		return nil, ErrNoPendingOrder
	}

	return f.handOffLocked(ctx, f.pending)
}

// handOffLocked delivers the order and advances the state machine. Caller
// must hold the lock.
func (f *Flow) handOffLocked(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := f.sink.Submit(ctx, order); err != nil {
		log.Printf("order sink rejected order %s: %v", order.ID, err)
		f.pending = order
		f.state = domain.CheckoutStateFailed
		return nil, fmt.Errorf("order hand-off failed: %w", err)
	}

	f.cart.Clear(ctx)
	f.pending = nil
	f.state = domain.CheckoutStateSubmitted
	f.scheduleResetLocked()
	return order, nil
}

// scheduleResetLocked arms the single delayed task that returns the flow to
// Idle and wipes the form after the confirmation has been displayed.
func (f *Flow) scheduleResetLocked() {
	if f.resetTimer != nil {
		f.resetTimer.Stop()
	}
	f.resetTimer = time.AfterFunc(f.resetDelay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.state != domain.CheckoutStateSubmitted {
			return
		}
		f.state = domain.CheckoutStateIdle
		f.customer = domain.CustomerInfo{}
	})
}

// Close ends the session: the confirmation timer is the only thing left to
// cancel.
func (f *Flow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetTimer != nil {
		f.resetTimer.Stop()
	}
}
