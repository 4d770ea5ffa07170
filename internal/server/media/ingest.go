package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/logging"
	"github.com/dmitrijs2005/postmedia/internal/server/models"
)

// UploadRequest is one post with its attached file.
type UploadRequest struct {
	Username    string
	Title       string
	Description *string
	Filename    string
	Body        io.Reader
}

type Ingestor struct {
	identity  IdentityProvider
	posts     PostRepository
	blobs     BlobStore
	uploadDir string
	log       logging.Logger
}

func NewIngestor(identity IdentityProvider, posts PostRepository, blobs BlobStore, uploadDir string, log logging.Logger) *Ingestor {
	return &Ingestor{
		identity:  identity,
		posts:     posts,
		blobs:     blobs,
		uploadDir: uploadDir,
		log:       log.With("module", "media.ingest"),
	}
}

// Upload validates req, creates the post and stores the file as
// "<uploadDir>/<post id>.<ext>".
//
// Nothing is written until every check passed. The post row is created
// before the file; if the file write then fails the row stays and the error
// wraps common.ErrorStorageFailure.
func (s *Ingestor) Upload(ctx context.Context, req UploadRequest) (*models.Post, error) {
	format, err := uploadFormat(req.Filename)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", common.ErrorValidation)
	}
	if req.Body == nil {
		return nil, fmt.Errorf("%w: file is required", common.ErrorValidation)
	}

	user, err := s.identity.ResolveUser(ctx, req.Username)
	if err != nil {
		return nil, err
	}

	callerID, err := s.identity.CurrentCaller(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}
	if callerID != user.ID {
		return nil, fmt.Errorf("%w: cannot upload for another user", common.ErrorForbidden)
	}

	text := ""
	if req.Description != nil {
		text = *req.Description
	}

	post, err := s.posts.Create(ctx, &models.Post{
		Title:           req.Title,
		Text:            text,
		MediaURL:        s.uploadDir,
		CreatedByUserID: user.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	key := path.Join(s.uploadDir, fmt.Sprintf("%d.%s", post.ID, format.Ext()))
	if err := s.blobs.Write(ctx, key, req.Body); err != nil {
		s.log.Error(ctx, "post created but file not stored", "post_id", post.ID, "key", key, "error", err)
		return nil, fmt.Errorf("%w: %w", common.ErrorStorageFailure, err)
	}

	s.log.Info(ctx, "upload stored", "post_id", post.ID, "key", key, "user_id", user.ID)
	return post, nil
}
