// Package storage stores user-facing blobs such as profile avatars in an
// S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Storage is the interface for uploading and retrieving objects.
type Storage interface {
	// Upload streams data to the store under the given key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// Delete removes an object identified by key.
	Delete(ctx context.Context, key string) error
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}

// avatarExt maps accepted avatar content types to file extensions.
var avatarExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarKey returns the object key for a new avatar of userID. Each upload
// gets a distinct key so CDNs never serve a stale image.
func AvatarKey(userID, contentType string, at time.Time) (string, error) {
	ext, ok := avatarExt[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported avatar type %q", contentType)
	}
	return fmt.Sprintf("%s/avatar-%d%s", userID, at.UnixNano(), ext), nil
}
