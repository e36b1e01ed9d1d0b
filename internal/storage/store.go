// Package storage holds the cross-session key/value state: the cart
// identity, the checkout URL and the customer token. Slots are untyped
// strings, last writer wins.
package storage

import (
	"context"
	"errors"
	"sync"
)

// Well-known slot keys.
const (
	KeyCartID        = "cart_id"
	KeyCheckoutURL   = "checkout_url"
	KeyCustomerToken = "customer_token"
)

// ErrNotFound is returned when a slot has never been written or was deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store is the persisted key/value surface the commerce services depend on.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in-process Store, used in tests and when no Redis
// address is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	slots map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{slots: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	val, ok := m.slots[key]
	if !ok {
		return "", ErrNotFound
	}
	return val, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}
