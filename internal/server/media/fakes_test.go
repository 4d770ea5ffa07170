package media

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/logging"
	"github.com/dmitrijs2005/postmedia/internal/server/models"
	"github.com/dmitrijs2005/postmedia/internal/server/repositories/posts"
)

type fakeIdentity struct {
	IdentityProvider
	users     map[string]*models.User
	callerID  int64
	noCaller  bool
	callerErr error
}

func (f *fakeIdentity) ResolveUser(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.users[username]
	if !ok || u.IsDeleted {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeIdentity) CurrentCaller(ctx context.Context) (int64, error) {
	if f.callerErr != nil {
		return 0, f.callerErr
	}
	if f.noCaller {
		return 0, common.ErrorUnauthorized
	}
	return f.callerID, nil
}

type fakePosts struct {
	PostRepository
	mu        sync.Mutex
	nextID    int64
	rows      map[int64]*models.Post
	creates   int
	createErr error
	getErr    error
}

func newFakePosts() *fakePosts {
	return &fakePosts{nextID: 1, rows: map[int64]*models.Post{}}
}

func (f *fakePosts) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.rows[p.ID] = &cp
	return p, nil
}

func (f *fakePosts) Get(ctx context.Context, filter posts.Filter) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.rows[filter.ID]
	if !ok || p.IsDeleted || (filter.CreatedByUserID != 0 && p.CreatedByUserID != filter.CreatedByUserID) {
		return nil, common.ErrorNotFound
	}
	cp := *p
	return &cp, nil
}

type memBlobs struct {
	BlobStore
	mu        sync.Mutex
	objects   map[string][]byte
	writes    int
	writeErr  error
	existsErr error
}

func newMemBlobs() *memBlobs { return &memBlobs{objects: map[string][]byte{}} }

func (m *memBlobs) Write(ctx context.Context, key string, r io.Reader) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.writeErr != nil {
		return m.writeErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = b
	return nil
}

func (m *memBlobs) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memBlobs) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

var errBoom = errors.New("boom")

func testLogger(buf *bytes.Buffer) logging.Logger {
	return logging.New(logging.Config{Level: "debug", Format: logging.FormatText, Writer: buf})
}

func alice() *models.User { return &models.User{ID: 1, UserName: "alice"} }
func bob() *models.User   { return &models.User{ID: 2, UserName: "bob"} }

func ptr[T any](v T) *T { return &v }
