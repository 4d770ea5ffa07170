package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/postmedia/internal/common"
	"github.com/dmitrijs2005/postmedia/internal/dbx"
	"github.com/dmitrijs2005/postmedia/internal/server/models"
)

type SQLRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
}

func NewSQLRepository(db dbx.DBTX, dialect dbx.Dialect) *SQLRepository {
	return &SQLRepository{db: db, dialect: dialect}
}

// Create inserts post and fills in its ID and CreatedAt.
func (r *SQLRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (title, text, media_url, created_by_user_id, created_at)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	createdAt := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, dbx.Rebind(r.dialect, query),
		post.Title, post.Text, post.MediaURL, post.CreatedByUserID, createdAt).Scan(&post.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	post.CreatedAt = createdAt
	post.IsDeleted = false
	return post, nil
}

// Get returns the live post matching filter, or common.ErrorNotFound.
func (r *SQLRepository) Get(ctx context.Context, filter Filter) (*models.Post, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, title, text, media_url, created_by_user_id, created_at FROM posts
		 WHERE id = $1 AND is_deleted = FALSE`)
	args := []any{filter.ID}
	if filter.CreatedByUserID != 0 {
		sb.WriteString(` AND created_by_user_id = $2`)
		args = append(args, filter.CreatedByUserID)
	}

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, dbx.Rebind(r.dialect, sb.String()), args...).
		Scan(&post.ID, &post.Title, &post.Text, &post.MediaURL, &post.CreatedByUserID, &post.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}
