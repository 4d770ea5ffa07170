// Package blob stores media objects under slash-separated keys, either on
// the local filesystem or in an S3-compatible bucket.
package blob

import (
	"fmt"
	"path"
	"strings"

	"github.com/dmitrijs2005/postmedia/internal/common"
)

// cleanKey normalizes key and rejects keys that are empty or climb out of
// the store root.
func cleanKey(key string) (string, error) {
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: bad blob key %q", common.ErrorValidation, key)
		}
	}
	k := strings.TrimPrefix(path.Clean("/"+strings.TrimSpace(key)), "/")
	if k == "" {
		return "", fmt.Errorf("%w: bad blob key %q", common.ErrorValidation, key)
	}
	return k, nil
}
