package objstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotExist is returned when an object is absent from the store
var ErrNotExist = errors.New("object does not exist")

// ObjectAttrs holds the metadata the backend keeps per object
type ObjectAttrs struct {
	ContentType string
	Size        int64
}

// WriterOptions configure a streamed write
type WriterOptions struct {
	ContentType string
	// Metadata is attached to the object as custom key/value pairs
	Metadata map[string]string
}

// Store is a durable blob store keyed by path.
// Writes are streamed; an object becomes visible when its writer is
// closed without error. All implementations must be safe for
// concurrent use.
type Store interface {
	// NewWriter opens a streamed write to path. Closing the writer
	// commits the object; any prior object at path is overwritten.
	NewWriter(ctx context.Context, path string, opts WriterOptions) io.WriteCloser

	// NewReader opens a streamed read. Returns ErrNotExist when absent.
	NewReader(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists reports whether an object is present at path.
	Exists(ctx context.Context, path string) (bool, error)

	// Attrs returns object metadata. Returns ErrNotExist when absent.
	Attrs(ctx context.Context, path string) (*ObjectAttrs, error)

	// Delete removes the object at path. Deleting a missing object
	// returns ErrNotExist.
	Delete(ctx context.Context, path string) error

	// Health checks backend reachability.
	Health(ctx context.Context) error
}
