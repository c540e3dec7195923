// Package imagestore saves processed images and returns the location that is
// recorded as a service image's URL.
package imagestore

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Store persists image bytes under key and returns a stable URL for them.
// Delete removes a stored key; deleting a missing key is not an error.
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// NewKey returns a fresh random object key with the given extension.
func NewKey(ext string) string {
	return uuid.NewString() + ext
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
