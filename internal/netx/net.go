// Package netx holds small HTTP helpers shared by API clients.
package netx

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody bounds how much of a failed response is read.
const maxErrorBody = 4 << 10

// ErrorMessage describes a failed response. It prefers the "error" field of a
// JSON body, then the raw body, then the status line. The body is consumed.
func ErrorMessage(resp *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}

	if msg := strings.TrimSpace(string(b)); msg != "" {
		return msg
	}
	return resp.Status
}

// DrainAndClose discards what is left of body so the connection can be
// reused, then closes it.
func DrainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
	_ = body.Close()
}
