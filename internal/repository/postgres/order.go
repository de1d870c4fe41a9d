package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/repository"
)

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new OrderRepository backed by Postgres.
func NewOrderRepository(db *sql.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, user_id, total_amount, status, delivery_street, delivery_city,
			delivery_state, delivery_zip, phone, payment_method, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		order.ID, order.UserID, order.TotalAmount, order.Status,
		order.DeliveryStreet, order.DeliveryCity, order.DeliveryState, order.DeliveryZip,
		order.Phone, order.PaymentMethod, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRowContext(ctx,
			`INSERT INTO order_items (order_id, food_id, food_name, food_image, quantity, price)
			 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			item.OrderID, item.FoodID, item.FoodName, item.FoodImage, item.Quantity, item.Price,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *orderRepository) FindByUser(ctx context.Context, userID string) ([]entity.Order, error) {
	return r.find(ctx,
		`SELECT id, user_id, total_amount, status, delivery_street, delivery_city,
			delivery_state, delivery_zip, phone, payment_method, created_at
		 FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *orderRepository) FindAll(ctx context.Context) ([]entity.Order, error) {
	return r.find(ctx,
		`SELECT id, user_id, total_amount, status, delivery_street, delivery_city,
			delivery_state, delivery_zip, phone, payment_method, created_at
		 FROM orders ORDER BY created_at DESC`)
}

func (r *orderRepository) find(ctx context.Context, query string, args ...any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status,
			&o.DeliveryStreet, &o.DeliveryCity, &o.DeliveryState, &o.DeliveryZip,
			&o.Phone, &o.PaymentMethod, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read orders: %w", err)
	}

	// Fetch items for each order.
	for i := range orders {
		items, err := r.findItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *orderRepository) findItems(ctx context.Context, orderID string) ([]entity.LineItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, food_id, food_name, food_image, quantity, price
		 FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []entity.LineItem
	for rows.Next() {
		var item entity.LineItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.FoodID, &item.FoodName,
			&item.FoodImage, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status entity.Status) (string, error) {
	var userID string
	err := r.db.QueryRowContext(ctx,
		"UPDATE orders SET status = $1 WHERE id = $2 RETURNING user_id",
		status, orderID,
	).Scan(&userID)
	if err == sql.ErrNoRows {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to update order status: %w", err)
	}
	return userID, nil
}
