package postgres

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
)

func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("Database connected and migrated")
	return db, nil
}

func migrateDB(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS user_roles (
			user_id TEXT NOT NULL REFERENCES users(id),
			role TEXT NOT NULL,
			PRIMARY KEY (user_id, role)
		);

		CREATE TABLE IF NOT EXISTS menu (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL DEFAULT 0,
			image TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			rating DOUBLE PRECISION NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			total_amount BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'pending',
			delivery_street TEXT NOT NULL DEFAULT '',
			delivery_city TEXT NOT NULL DEFAULT '',
			delivery_state TEXT NOT NULL DEFAULT '',
			delivery_zip TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			payment_method TEXT NOT NULL DEFAULT 'cod',
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id),
			food_id TEXT NOT NULL,
			food_name TEXT NOT NULL,
			food_image TEXT NOT NULL DEFAULT '',
			quantity INT NOT NULL DEFAULT 1,
			price BIGINT NOT NULL DEFAULT 0
		);
	`)
	return err
}
