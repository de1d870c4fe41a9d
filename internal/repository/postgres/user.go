package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/foodkart/backend/internal/entity"
	"github.com/foodkart/backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository backed by Postgres.
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)",
		user.ID, user.Email, user.Name, user.PasswordHash, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx,
		"SELECT id, email, name, password_hash, created_at FROM users WHERE email = $1", email)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx,
		"SELECT id, email, name, password_hash, created_at FROM users WHERE id = $1", id)
}

func (r *userRepository) findOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}
