package cart

import (
	"sync"

	"github.com/foodkart/backend/internal/catalog"
)

// Registry hands out one cart per session token. The registry itself is
// shared across request goroutines and locks; each cart is still mutated
// only under the registry's lock via With.
type Registry struct {
	catalog *catalog.Catalog

	mu    sync.Mutex
	carts map[string]*Cart
}

// NewRegistry returns an empty registry pricing carts against cat.
func NewRegistry(cat *catalog.Catalog) *Registry {
	return &Registry{
		catalog: cat,
		carts:   make(map[string]*Cart),
	}
}

// With runs fn against the cart for token, creating an empty cart on first
// use. The cart must not escape fn.
func (r *Registry) With(token string, fn func(c *Cart)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[token]
	if !ok {
		c = New(r.catalog)
		r.carts[token] = c
	}
	fn(c)
}

// Drop discards the cart for token. Called when the session ends.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, token)
}
