package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/foodkart/backend/internal/auth"
	"github.com/foodkart/backend/internal/cart"
	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/messaging"
	"github.com/foodkart/backend/internal/repository"
)

// DeliveryFee is the flat per-order fee, charged whenever the subtotal is
// positive. Amounts are whole currency units.
const DeliveryFee int64 = 50

// DefaultPaymentMethod is used when checkout does not select one.
const DefaultPaymentMethod = "cod"

var (
	// ErrNotSignedIn is returned when checkout has no resolved owner.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotAdmin is returned when a privileged call lacks the admin role.
	ErrNotAdmin = errors.New("admin privileges required")
	// ErrInvalidStatus is returned for a status outside the vocabulary.
	ErrInvalidStatus = errors.New("invalid order status")
	// ErrMissingField is returned when a required delivery field is empty.
	ErrMissingField = errors.New("missing delivery field")
)

// CheckoutDetails carries the delivery and payment fields collected at
// checkout. All address fields and the phone number are required.
type CheckoutDetails struct {
	Street        string `json:"street"`
	City          string `json:"city"`
	State         string `json:"state"`
	Zip           string `json:"zip"`
	Phone         string `json:"phone"`
	PaymentMethod string `json:"payment_method"`
}

func (d *CheckoutDetails) validate() error {
	for _, field := range []struct{ name, value string }{
		{"street", d.Street},
		{"city", d.City},
		{"state", d.State},
		{"zip", d.Zip},
		{"phone", d.Phone},
	} {
		if field.value == "" {
			return fmt.Errorf("%w: %s", ErrMissingField, field.name)
		}
	}
	return nil
}

// Orders orchestrates checkout, order reads and admin status transitions.
type Orders struct {
	repo   repository.OrderRepository
	roles  auth.RoleChecker
	events messaging.Publisher
}

// NewOrders wires an Orders service.
func NewOrders(repo repository.OrderRepository, roles auth.RoleChecker, events messaging.Publisher) *Orders {
	return &Orders{
		repo:   repo,
		roles:  roles,
		events: events,
	}
}

// Place turns the cart into a persisted order owned by userID. The order row
// and its line items are written in one transaction; on success the cart is
// cleared, on any failure it is left untouched so the caller can retry.
func (s *Orders) Place(ctx context.Context, userID string, c *cart.Cart, details CheckoutDetails) (*entity.Order, error) {
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	if c.TotalItems() == 0 {
		return nil, ErrEmptyCart
	}
	if err := details.validate(); err != nil {
		return nil, err
	}
	if details.PaymentMethod == "" {
		details.PaymentMethod = DefaultPaymentMethod
	}

	subtotal := c.TotalAmount()
	var fee int64
	if subtotal > 0 {
		fee = DeliveryFee
	}

	order := &entity.Order{
		ID:             uuid.New().String(),
		UserID:         userID,
		TotalAmount:    subtotal + fee,
		Status:         entity.StatusPending,
		DeliveryStreet: details.Street,
		DeliveryCity:   details.City,
		DeliveryState:  details.State,
		DeliveryZip:    details.Zip,
		Phone:          details.Phone,
		PaymentMethod:  details.PaymentMethod,
		CreatedAt:      time.Now().UTC(),
	}
	for _, line := range c.Lines() {
		order.Items = append(order.Items, entity.LineItem{
			OrderID:   order.ID,
			FoodID:    line.Item.ID,
			FoodName:  line.Item.Name,
			FoodImage: line.Item.Image,
			Quantity:  line.Quantity,
			Price:     line.Item.Price,
		})
	}

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	c.Clear()
	slog.Info("Order placed", "order_id", order.ID, "user_id", userID, "total", order.TotalAmount)

	s.publish(ctx, messaging.TopicOrderPlaced, entity.OrderPlaced{
		OrderID:     order.ID,
		UserID:      userID,
		TotalAmount: order.TotalAmount,
		PlacedAt:    order.CreatedAt,
	})
	return order, nil
}

// ForUser returns userID's orders, newest first, line items included.
func (s *Orders) ForUser(ctx context.Context, userID string) ([]entity.Order, error) {
	if userID == "" {
		return nil, ErrNotSignedIn
	}
	orders, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// All returns every order regardless of owner. The actor's admin verdict is
// checked on each call.
func (s *Orders) All(ctx context.Context, actorID string) ([]entity.Order, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	orders, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// SetStatus writes status into the order row unconditionally and notifies
// subscribed viewers. Any vocabulary value is accepted at any time; racing
// admins resolve last-write-wins at the store.
func (s *Orders) SetStatus(ctx context.Context, actorID, orderID string, status entity.Status) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}

	ownerID, err := s.repo.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	slog.Info("Order status changed", "order_id", orderID, "status", status, "by", actorID)

	s.publish(ctx, messaging.TopicOrderStatus, entity.OrderStatusChanged{
		OrderID:   orderID,
		UserID:    ownerID,
		Status:    status,
		ChangedAt: time.Now().UTC(),
	})
	return nil
}

func (s *Orders) requireAdmin(ctx context.Context, actorID string) error {
	if actorID == "" {
		return ErrNotSignedIn
	}
	isAdmin, err := s.roles.IsAdmin(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to check admin role: %w", err)
	}
	if !isAdmin {
		return ErrNotAdmin
	}
	return nil
}

// publish sends a domain event. Notifications are best-effort: the write
// already happened, so a publish failure is logged, not propagated.
func (s *Orders) publish(ctx context.Context, topic string, event entity.Event) {
	if s.events == nil {
		return
	}
	var key string
	switch e := event.(type) {
	case entity.OrderPlaced:
		key = e.OrderID
	case entity.OrderStatusChanged:
		key = e.OrderID
	}
	if err := s.events.PublishEvent(ctx, topic, key, event); err != nil {
		slog.Error("Failed to publish event", "type", event.EventType(), "topic", topic, "err", err)
	}
}
