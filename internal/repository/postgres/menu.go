package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/repository"
)

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new MenuRepository backed by Postgres.
func NewMenuRepository(db *sql.DB) repository.MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) Seed(ctx context.Context, items []entity.FoodItem) error {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM menu").Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to count menu items: %w", err)
	}
	if count > 0 {
		return nil // already seeded
	}

	for _, item := range items {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO menu (id, name, description, price, image, category, rating) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			item.ID, item.Name, item.Description, item.Price, item.Image, item.Category, item.Rating,
		)
		if err != nil {
			return fmt.Errorf("failed to seed menu item %s: %w", item.ID, err)
		}
	}
	return nil
}
