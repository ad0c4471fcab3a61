// Package cache keeps the last catalog snapshot so product pages can degrade
// to stale data when the fulfillment API is down.
package cache

import (
	"context"
	"sort"
	"sync"

	"github.com/brianmwiruki/Thrills/models"
)

type Cache interface {
	Put(ctx context.Context, products []models.Product) error
	Get(ctx context.Context, id string) (*models.Product, error)
	All(ctx context.Context) ([]models.Product, error)
}

// MemoryCache is used when no database is configured.
type MemoryCache struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{products: map[string]models.Product{}}
}

func (m *MemoryCache) Put(_ context.Context, products []models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range products {
		m.products[p.ID] = p
	}
	return nil
}

// Get returns nil when the product is not cached.
func (m *MemoryCache) Get(_ context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// All returns the cached products ordered by id.
func (m *MemoryCache) All(_ context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
