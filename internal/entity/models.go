package entity

import (
	"time"
)

// FoodItem represents a purchasable item on the menu. The menu is a static
// reference list; items never change at runtime.
type FoodItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       int64   `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Rating      float64 `json:"rating"`
}

// User is a registered account.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// LineItem is a snapshot of one purchased menu item within an order. Name,
// image and unit price are copied from the menu at purchase time so historical
// orders stay accurate even if the menu data changes.
type LineItem struct {
	ID        int64  `json:"id"`
	OrderID   string `json:"order_id"`
	FoodID    string `json:"food_id"`
	FoodName  string `json:"food_name"`
	FoodImage string `json:"food_image"`
	Quantity  int    `json:"quantity"`
	Price     int64  `json:"price"`
}

// Order represents a completed checkout. Only Status is mutable after
// creation; everything else is written once.
type Order struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	TotalAmount    int64      `json:"total_amount"`
	Status         Status     `json:"status"`
	DeliveryStreet string     `json:"delivery_street"`
	DeliveryCity   string     `json:"delivery_city"`
	DeliveryState  string     `json:"delivery_state"`
	DeliveryZip    string     `json:"delivery_zip"`
	Phone          string     `json:"phone"`
	PaymentMethod  string     `json:"payment_method"`
	CreatedAt      time.Time  `json:"created_at"`
	Items          []LineItem `json:"items"`
}

// --- Events ---

// Event represents a domain event.
type Event interface {
	EventType() string
}

// OrderPlaced is emitted when a checkout successfully persists an order.
type OrderPlaced struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount int64     `json:"total_amount"`
	PlacedAt    time.Time `json:"placed_at"`
}

func (e OrderPlaced) EventType() string { return "OrderPlaced" }

// OrderStatusChanged is emitted when an admin transitions an order's status.
// Customer views consume it to patch their in-memory lists.
type OrderStatusChanged struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Status    Status    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
}

func (e OrderStatusChanged) EventType() string { return "OrderStatusChanged" }

// SessionChanged is emitted on sign-in, sign-out and token refresh so that
// session-scoped resources (carts, views) can react.
type SessionChanged struct {
	UserID string    `json:"user_id"`
	Token  string    `json:"token"`
	Change string    `json:"change"` // "signed_in", "signed_out", "refreshed"
	At     time.Time `json:"at"`
}

func (e SessionChanged) EventType() string { return "SessionChanged" }
