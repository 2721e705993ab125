package storage

import (
	"context"
	"errors"
	"strings"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrEmptyObject    = errors.New("object is empty")
)

// ObjectStore puts files into a bucket and hands out their public address.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error)
	PublicURL(bucket, path string) string
}

// publicURL joins base, bucket and object path with exactly one slash between them.
func publicURL(base, bucket, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Trim(bucket, "/") + "/" + strings.TrimLeft(path, "/")
}
