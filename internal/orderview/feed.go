// Package orderview maintains in-memory order lists for the two viewers: the
// customer feed, reconciled live from status-change notifications, and the
// admin board, patched locally after its own writes.
package orderview

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/messaging"
	"github.com/foodkart/backend/internal/repository"
)

// Feed is one customer's live view of their orders. It loads the full list
// once, then patches statuses from the notification stream without
// re-fetching. Notifications are a hint, not a source of truth: a dropped
// event leaves the feed stale until Refresh.
type Feed struct {
	userID string
	repo   repository.OrderRepository

	mu     sync.RWMutex
	orders []entity.Order

	updates chan entity.OrderStatusChanged
	cancel  context.CancelFunc
	done    chan struct{}
}

// OpenFeed loads userID's orders and starts consuming status notifications
// from sub. Close must be called when the view goes away or the owner
// changes.
func OpenFeed(ctx context.Context, userID string, repo repository.OrderRepository, sub message.Subscriber) (*Feed, error) {
	f := &Feed{
		userID:  userID,
		repo:    repo,
		updates: make(chan entity.OrderStatusChanged, 16),
		done:    make(chan struct{}),
	}

	if err := f.Refresh(ctx); err != nil {
		return nil, err
	}

	subCtx, cancel := context.WithCancel(ctx)
	f.cancel = cancel

	msgs, err := sub.Subscribe(subCtx, messaging.TopicOrderStatus)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to status updates: %w", err)
	}

	go f.consume(msgs)
	return f, nil
}

func (f *Feed) consume(msgs <-chan *message.Message) {
	defer close(f.done)
	defer close(f.updates)
	for msg := range msgs {
		var event entity.OrderStatusChanged
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			slog.Error("Failed to decode status notification", "err", err)
			msg.Ack()
			continue
		}
		msg.Ack()

		if event.UserID != f.userID {
			continue
		}
		if f.apply(event) {
			select {
			case f.updates <- event:
			default: // slow reader, drop; Refresh reconciles
			}
		}
	}
}

// apply patches the status of a known order in place and reports whether it
// matched. Notifications for unknown order ids (e.g. placed from another
// device after load) are dropped; Refresh picks those up.
func (f *Feed) apply(event entity.OrderStatusChanged) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.orders {
		if f.orders[i].ID == event.OrderID {
			f.orders[i].Status = event.Status
			return true
		}
	}
	return false
}

// Updates delivers the status changes applied to this feed. The channel is
// closed when the subscription ends.
func (f *Feed) Updates() <-chan entity.OrderStatusChanged {
	return f.updates
}

// Orders returns a snapshot of the current list, newest first.
func (f *Feed) Orders() []entity.Order {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]entity.Order, len(f.orders))
	copy(out, f.orders)
	return out
}

// Refresh re-fetches the full list, reconciling any missed notifications.
func (f *Feed) Refresh(ctx context.Context) error {
	orders, err := f.repo.FindByUser(ctx, f.userID)
	if err != nil {
		return fmt.Errorf("failed to load orders: %w", err)
	}
	f.mu.Lock()
	f.orders = orders
	f.mu.Unlock()
	return nil
}

// Close tears down the subscription and waits for the consumer to stop.
func (f *Feed) Close() {
	if f.cancel != nil {
		f.cancel()
	}
	<-f.done
}
