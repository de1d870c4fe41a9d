package orderview

import (
	"context"
	"sync"

	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/service"
)

// Board is an admin's in-memory view over every order. After a successful
// status write the list is patched locally instead of re-fetched; a failed
// write leaves it unchanged.
type Board struct {
	adminID string
	svc     *service.Orders

	mu     sync.RWMutex
	orders []entity.Order
}

// OpenBoard loads the full order list for adminID. The admin verdict is
// checked by the service on this and every later call.
func OpenBoard(ctx context.Context, adminID string, svc *service.Orders) (*Board, error) {
	b := &Board{adminID: adminID, svc: svc}
	if err := b.Refresh(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Orders returns a snapshot of the current list, newest first.
func (b *Board) Orders() []entity.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]entity.Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// SetStatus transitions one order's status and patches the local list.
func (b *Board) SetStatus(ctx context.Context, orderID string, status entity.Status) error {
	if err := b.svc.SetStatus(ctx, b.adminID, orderID, status); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.orders {
		if b.orders[i].ID == orderID {
			b.orders[i].Status = status
			break
		}
	}
	return nil
}

// Refresh re-fetches the full list.
func (b *Board) Refresh(ctx context.Context) error {
	orders, err := b.svc.All(ctx, b.adminID)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.orders = orders
	b.mu.Unlock()
	return nil
}
