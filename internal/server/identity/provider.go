// Package identity answers "who is this user" and "who is calling" for the
// media services.
package identity

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/server/auth"
	"github.com/dmitrijs2005/postmedia/internal/server/models"
	"github.com/dmitrijs2005/postmedia/internal/server/repositories/users"
)

// Provider looks users up in the users repository and reads the caller from
// the request context populated by the bearer-token middleware.
type Provider struct {
	users users.Repository
}

func NewProvider(users users.Repository) *Provider {
	return &Provider{users: users}
}

func (p *Provider) ResolveUser(ctx context.Context, username string) (*models.User, error) {
	if username == "" {
		return nil, common.ErrorNotFound
	}
	return p.users.GetByUsername(ctx, username)
}

func (p *Provider) CurrentCaller(ctx context.Context) (int64, error) {
	id, ok := auth.UserIDFromContext(ctx)
	if !ok {
		if err := auth.AuthErrorFromContext(ctx); err != nil {
			return 0, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
		}
		return 0, common.ErrorUnauthorized
	}
	return id, nil
}
