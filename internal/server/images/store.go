// Package images stores uploaded post images on local disk or in an
// S3-compatible bucket.
package images

import (
	"context"
	"io"
	"strings"
)

// PathPrefix starts every stored image path; the HTTP layer serves it.
const PathPrefix = "images/"

// Store persists images and hands out paths that are later stored in posts.
type Store interface {
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, path string) error
}

var extensions = map[string]string{
	"image/png":  ".png",
	"image/jpg":  ".jpg",
	"image/jpeg": ".jpeg",
}

// Allowed reports whether contentType is an accepted image type.
func Allowed(contentType string) bool {
	_, ok := extensions[normalizeType(contentType)]
	return ok
}

func extensionFor(contentType string) string {
	return extensions[normalizeType(contentType)]
}

func normalizeType(ct string) string {
	ct, _, _ = strings.Cut(ct, ";")
	return strings.ToLower(strings.TrimSpace(ct))
}
