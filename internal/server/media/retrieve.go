package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/logging"
	"github.com/dmitrijs2005/postmedia/internal/server/repositories/posts"
)

// FetchPolicy decides who may fetch a user's media.
type FetchPolicy string

const (
	PolicyPublic        FetchPolicy = "public"
	PolicyAuthenticated FetchPolicy = "authenticated"
	PolicyOwner         FetchPolicy = "owner"
)

// Asset is an opened media object ready to stream. Body must be closed.
type Asset struct {
	Body        io.ReadCloser
	ContentType string
	Filename    string
	Key         string
	// Fallback is set when the default asset stands in for the post's file.
	Fallback bool
}

type Retriever struct {
	identity     IdentityProvider
	posts        PostRepository
	blobs        BlobStore
	defaultAsset string
	policy       FetchPolicy
	log          logging.Logger
}

func NewRetriever(identity IdentityProvider, posts PostRepository, blobs BlobStore,
	defaultAsset string, policy FetchPolicy, log logging.Logger) *Retriever {
	if policy == "" {
		policy = PolicyPublic
	}
	return &Retriever{
		identity:     identity,
		posts:        posts,
		blobs:        blobs,
		defaultAsset: defaultAsset,
		policy:       policy,
		log:          log.With("module", "media.retrieve"),
	}
}

// Fetch opens the file of post postID owned by username in the given format.
//
// An unknown user is the only domain failure (common.ErrorNotFound). A
// missing post or a missing file both resolve to the default asset, served
// under the requested name and content type. Failing to open the asset that
// was finally chosen yields common.ErrorStorageFailure.
func (s *Retriever) Fetch(ctx context.Context, username string, postID int64, format Format) (*Asset, error) {
	user, err := s.identity.ResolveUser(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, user.ID); err != nil {
		return nil, err
	}

	asset := &Asset{
		ContentType: format.ContentType(),
		Filename:    fmt.Sprintf("%d%s", postID, format),
	}

	key, err := s.resolveKey(ctx, user.ID, postID, format)
	if err != nil {
		return nil, err
	}
	if key == "" {
		s.log.Warn(ctx, "serving default asset", "username", username, "post_id", postID, "format", string(format))
		key = s.defaultAsset
		asset.Fallback = true
	}

	body, err := s.blobs.Open(ctx, key)
	if errors.Is(err, common.ErrorNotFound) && !asset.Fallback {
		// Removed between the existence check and the open.
		s.log.Warn(ctx, "serving default asset", "username", username, "post_id", postID, "format", string(format), "missing", key)
		key = s.defaultAsset
		asset.Fallback = true
		body, err = s.blobs.Open(ctx, key)
	}
	if err != nil {
		// A missing default asset is a deployment fault, not a missing post.
		return nil, fmt.Errorf("%w: open %s: %v", common.ErrorStorageFailure, key, err)
	}

	asset.Body = body
	asset.Key = key
	return asset, nil
}

// resolveKey returns the post file's key, or "" when the post or the file
// does not exist.
func (s *Retriever) resolveKey(ctx context.Context, userID, postID int64, format Format) (string, error) {
	post, err := s.posts.Get(ctx, posts.Filter{ID: postID, CreatedByUserID: userID})
	if errors.Is(err, common.ErrorNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get post: %w", err)
	}

	key := path.Join(post.MediaURL, fmt.Sprintf("%d%s", post.ID, format))
	ok, err := s.blobs.Exists(ctx, key)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", key, err)
	}
	if !ok {
		return "", nil
	}
	return key, nil
}

func (s *Retriever) authorize(ctx context.Context, ownerID int64) error {
	if s.policy == PolicyPublic {
		return nil
	}

	callerID, err := s.identity.CurrentCaller(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return err
		}
		return fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	if s.policy == PolicyOwner && callerID != ownerID {
		return fmt.Errorf("%w: media belongs to another user", common.ErrorForbidden)
	}
	return nil
}
