package auth

import (
	"context"

	"github.com/foodkart/backend/internal/repository"
)

const adminRole = "admin"

// Roles answers the admin verdict from the user_roles table.
type Roles struct {
	repo repository.RoleRepository
}

// NewRoles wraps repo.
func NewRoles(repo repository.RoleRepository) *Roles {
	return &Roles{repo: repo}
}

func (r *Roles) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return r.repo.HasRole(ctx, userID, adminRole)
}
