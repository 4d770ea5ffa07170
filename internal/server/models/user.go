// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account that owns posts. Soft-deleted users are invisible to
// lookups.
type User struct {
	ID           int64     `db:"id"`
	UserName     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	IsDeleted    bool      `db:"is_deleted"`
	CreatedAt    time.Time `db:"created_at"`
}
