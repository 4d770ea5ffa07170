package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/postmedia/internal/common"
)

// ErrUnavailable reports that the server could not be reached or answered
// with a server-side failure.
var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-success response. It matches the common sentinel for
// its status with errors.Is.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusBadRequest:
		return common.ErrorValidation
	case e.StatusCode == http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return common.ErrorForbidden
	case e.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case e.StatusCode == http.StatusConflict:
		return common.ErrorAlreadyExists
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrUnavailable
	default:
		return nil
	}
}
