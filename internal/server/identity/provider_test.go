package identity

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/server/auth"
	"github.com/dmitrijs2005/postmedia/internal/server/models"
	"github.com/dmitrijs2005/postmedia/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	users.Repository
	byName map[string]*models.User
	calls  int
}

func (f *fakeUsers) GetByUsername(ctx context.Context, name string) (*models.User, error) {
	f.calls++
	if u, ok := f.byName[name]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func TestResolveUser(t *testing.T) {
	repo := &fakeUsers{byName: map[string]*models.User{"alice": {ID: 1, UserName: "alice"}}}
	p := NewProvider(repo)

	u, err := p.ResolveUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)

	_, err = p.ResolveUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = p.ResolveUser(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Equal(t, 2, repo.calls, "empty username must not hit the repository")
}

func TestCurrentCaller(t *testing.T) {
	p := NewProvider(&fakeUsers{})

	_, err := p.CurrentCaller(context.Background())
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = p.CurrentCaller(auth.WithAuthError(context.Background(), common.ErrTokenExpired))
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	assert.ErrorIs(t, err, common.ErrTokenExpired)

	id, err := p.CurrentCaller(auth.WithUserID(context.Background(), 7))
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}
