package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound reports that no blob exists under the requested key.
// A metadata record may still reference such a key; callers decide how to
// surface that inconsistency.
var ErrObjectNotFound = errors.New("object not found")

// BlobStore is the contract for storing uploaded file bytes. Keys are the
// generated stored names, never user-supplied paths.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
