package cart

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/alvin669/prickleys-store/internal/domain"
)

// Observer is notified with a snapshot of the cart after every mutation.
type Observer func(domain.CartSnapshot)

// Store owns the ordered collection of cart line items. Insertion order is
// significant: it drives display order and the order summary at checkout.
// Every mutation persists the full collection through the injected Storage;
// a failing save is logged and the in-memory state stays authoritative.
type Store struct {
	mu        sync.RWMutex
	items     []domain.CartItem
	storage   Storage
	observers []Observer
}

// NewStore rehydrates the cart from storage. A missing, unreadable or
// unversioned snapshot means an empty cart, never a failure.
func NewStore(ctx context.Context, storage Storage) *Store {
	s := &Store{storage: storage}

	snapshot, err := storage.Load(ctx)
	switch {
	case errors.Is(err, ErrSnapshotNotFound):
		// first session, empty cart
	case err != nil:
		log.Printf("cart storage load error, starting empty: %v", err)
	case snapshot.Version != domain.SnapshotVersion:
		log.Printf("cart snapshot version %d not supported, starting empty", snapshot.Version)
	default:
		s.items = snapshot.Items
	}

	return s
}

// Subscribe registers an observer. Observers run synchronously after the
// mutation, outside the store lock.
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// AddItem increments the quantity of an existing line for the product, or
// appends a new line with quantity 1. It always succeeds.
func (s *Store) AddItem(ctx context.Context, product domain.Product) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ProductID == product.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		s.items = append(s.items, domain.NewCartItem(product))
	}
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
}

// UpdateQuantity adjusts the quantity of the line for productID by delta.
// Driving the quantity to zero or below removes the line; an unknown id is a
// no-op.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, delta int) {
	s.mu.Lock()
	changed := false
	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		if newQty := s.items[i].Quantity + delta; newQty > 0 {
			s.items[i].Quantity = newQty
		} else {
			s.items = append(s.items[:i], s.items[i+1:]...)
		}
		changed = true
		break
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
}

// RemoveItem removes the line for productID if present.
func (s *Store) RemoveItem(ctx context.Context, productID int64) {
	s.mu.Lock()
	changed := false
	for i, item := range s.items {
		if item.ProductID == productID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			changed = true
			break
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
}

// Clear empties the cart. Called after a successful order submission.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	snapshot := s.persistLocked(ctx)
	s.mu.Unlock()

	s.notify(snapshot)
}

// Items returns a copy of the current line items in insertion order.
func (s *Store) Items() []domain.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItemCount is the sum of all quantities, for the badge display.
func (s *Store) TotalItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice is the sum of discounted price times quantity over all lines,
// always computed from current state.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0.0
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// persistLocked serializes the current collection and writes it out. Caller
// must hold the write lock. Returns the snapshot for observer delivery.
func (s *Store) persistLocked(ctx context.Context) domain.CartSnapshot {
	snapshot := domain.CartSnapshot{
		Version: domain.SnapshotVersion,
		Items:   make([]domain.CartItem, len(s.items)),
	}
	copy(snapshot.Items, s.items)

	if err := s.storage.Save(ctx, &snapshot); err != nil {
		log.Printf("cart storage save error: %v", err)
	}
	return snapshot
}

func (s *Store) notify(snapshot domain.CartSnapshot) {
	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}
