package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrInvalidKey = errors.New("invalid key")
	ErrNotFound   = errors.New("blob not found")
)

// BlobStore keeps generated artifacts. Keys are slash-separated relative
// paths such as "<session-id>/<filename>".
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader) (string, error) // returns canonical key
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// Key joins parts into a canonical key.
func Key(parts ...string) (string, error) {
	return CleanKey(strings.Join(parts, "/"))
}

// CleanKey normalizes key and rejects anything that would leave the store root.
func CleanKey(key string) (string, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	if key == "" || strings.HasPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", ErrInvalidKey
		}
	}
	c := path.Clean(key)
	if c == "." || c == "" {
		return "", ErrInvalidKey
	}
	return c, nil
}
