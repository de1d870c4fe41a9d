package repository

import (
	"context"
	"errors"

	"github.com/foodkart/backend/internal/entity"
)

// ErrNotFound is returned when a row-level lookup or update matches nothing.
var ErrNotFound = errors.New("not found")

// OrderRepository handles persistence for Orders and their line items.
type OrderRepository interface {
	// Create inserts the order row and its line items in one transaction.
	Create(ctx context.Context, order *entity.Order) error
	// FindByUser returns userID's orders newest first, items included.
	FindByUser(ctx context.Context, userID string) ([]entity.Order, error)
	// FindAll returns every order regardless of owner, newest first,
	// items included.
	FindAll(ctx context.Context) ([]entity.Order, error)
	// UpdateStatus writes status into the order row unconditionally and
	// returns the owner's user id. Racing writers resolve last-write-wins.
	UpdateStatus(ctx context.Context, orderID string, status entity.Status) (userID string, err error)
}

// UserRepository handles persistence for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// RoleRepository answers role membership questions.
type RoleRepository interface {
	HasRole(ctx context.Context, userID, role string) (bool, error)
}

// MenuRepository mirrors the static menu into the database for external
// readers.
type MenuRepository interface {
	// Seed inserts the menu items if the table is empty.
	Seed(ctx context.Context, items []entity.FoodItem) error
}
