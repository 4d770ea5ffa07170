package models

import "time"

// Post is a titled entry with an attached media file. MediaURL holds the
// blob prefix the file was written under; the object itself is
// "<MediaURL>/<ID>.<ext>".
type Post struct {
	ID              int64     `db:"id"`
	Title           string    `db:"title"`
	Text            string    `db:"text"`
	MediaURL        string    `db:"media_url"`
	CreatedByUserID int64     `db:"created_by_user_id"`
	IsDeleted       bool      `db:"is_deleted"`
	CreatedAt       time.Time `db:"created_at"`
}
