// Package media binds uploaded video files to posts and resolves
// (user, post, format) back to bytes, falling back to a default asset when
// the post or its file is missing.
package media

import (
	"context"
	"io"

	"github.com/dmitrijs2005/postmedia/internal/server/models"
	"github.com/dmitrijs2005/postmedia/internal/server/repositories/posts"
)

// IdentityProvider resolves usernames and reports who is calling.
type IdentityProvider interface {
	// ResolveUser returns the live user named username, or common.ErrorNotFound.
	ResolveUser(ctx context.Context, username string) (*models.User, error)
	// CurrentCaller returns the authenticated user id, or common.ErrorUnauthorized.
	CurrentCaller(ctx context.Context) (int64, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Get(ctx context.Context, filter posts.Filter) (*models.Post, error)
}

type BlobStore interface {
	Write(ctx context.Context, key string, r io.Reader) error
	Exists(ctx context.Context, key string) (bool, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
