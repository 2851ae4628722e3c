package cart

import (
	"context"
	"sync"

	"github.com/alvin669/prickleys-store/internal/domain"
)

// MemoryStorage keeps the snapshot in process memory. Used when no durable
// backend is configured, and as the storage fake in tests.
type MemoryStorage struct {
	mu       sync.RWMutex
	snapshot *domain.CartSnapshot
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(_ context.Context) (*domain.CartSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.snapshot == nil {
		return nil, ErrSnapshotNotFound
	}

	out := domain.CartSnapshot{
		Version: m.snapshot.Version,
		Items:   make([]domain.CartItem, len(m.snapshot.Items)),
	}
	copy(out.Items, m.snapshot.Items)
	return &out, nil
}

func (m *MemoryStorage) Save(_ context.Context, snapshot *domain.CartSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := domain.CartSnapshot{
		Version: snapshot.Version,
		Items:   make([]domain.CartItem, len(snapshot.Items)),
	}
	copy(stored.Items, snapshot.Items)
	m.snapshot = &stored
	return nil
}
