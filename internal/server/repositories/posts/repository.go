// Package posts persists post metadata.
package posts

import (
	"context"

	"github.com/dmitrijs2005/postmedia/internal/server/models"
)

// Filter selects a single live post. CreatedByUserID zero means any owner.
type Filter struct {
	ID              int64
	CreatedByUserID int64
}

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Get(ctx context.Context, filter Filter) (*models.Post, error)
}
