package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/foodkart/backend/internal/repository"
)

type roleRepository struct {
	db *sql.DB
}

// NewRoleRepository creates a new RoleRepository backed by Postgres.
func NewRoleRepository(db *sql.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) HasRole(ctx context.Context, userID, role string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)",
		userID, role,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query role: %w", err)
	}
	return exists, nil
}
