// Package users persists user accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/postmedia/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// GetByUsername returns the live (not soft-deleted) user with that name,
	// or common.ErrorNotFound.
	GetByUsername(ctx context.Context, userName string) (*models.User, error)
}
