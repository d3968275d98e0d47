package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound reports a lookup for a key with no stored blob.
var ErrNotFound = errors.New("blob not found")

// Store is the byte-storage abstraction behind image uploads. Put streams
// the payload and returns an opaque key; records persist only the key.
type Store interface {
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
