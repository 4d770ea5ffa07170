// Package common defines shared constants and sentinel errors used across
// server and client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Validation errors, detected before any mutation.
	ErrorInvalidFormat = errors.New("invalid file format, only .mp4 and .fbx are allowed")
	ErrorValidation    = errors.New("validation error")

	// Access errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Blob store errors. A storage failure after metadata commit leaves a
	// post without bytes; it is reported, never rolled back.
	ErrorStorageFailure = errors.New("storage failure")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
