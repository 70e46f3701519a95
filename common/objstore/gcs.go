package objstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Logger interface for logging
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
}

// GCSStore provides object storage backed by Google Cloud Storage
type GCSStore struct {
	client *storage.Client
	bucket string
	logger Logger
}

// NewGCSStore creates a GCS-backed store for the given bucket.
// When credentialsFile is empty, application default credentials are used.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string, logger Logger) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	logger.Info("GCS store ready", "bucket", bucket)

	return &GCSStore{
		client: client,
		bucket: bucket,
		logger: logger,
	}, nil
}

// Bucket returns the configured bucket name
func (s *GCSStore) Bucket() string {
	return s.bucket
}

// Close closes the underlying GCS client
func (s *GCSStore) Close() error {
	return s.client.Close()
}

// NewWriter opens a streamed write to path
func (s *GCSStore) NewWriter(ctx context.Context, path string, opts WriterOptions) io.WriteCloser {
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	w.ContentType = opts.ContentType
	if len(opts.Metadata) > 0 {
		w.Metadata = opts.Metadata
	}
	return w
}

// NewReader opens a streamed read from path
func (s *GCSStore) NewReader(ctx context.Context, path string) (io.ReadCloser, error) {
	r, err := s.client.Bucket(s.bucket).Object(path).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to open reader for %s: %w", path, err)
	}
	return r, nil
}

// Exists reports whether an object is present at path
func (s *GCSStore) Exists(ctx context.Context, path string) (bool, error) {
	_, err := s.client.Bucket(s.bucket).Object(path).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return true, nil
}

// Attrs returns object metadata
func (s *GCSStore) Attrs(ctx context.Context, path string) (*ObjectAttrs, error) {
	attrs, err := s.client.Bucket(s.bucket).Object(path).Attrs(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotExist
		}
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return &ObjectAttrs{
		ContentType: attrs.ContentType,
		Size:        attrs.Size,
	}, nil
}

// Delete removes the object at path
func (s *GCSStore) Delete(ctx context.Context, path string) error {
	err := s.client.Bucket(s.bucket).Object(path).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrNotExist
		}
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	s.logger.Debug("deleted object", "path", path)
	return nil
}

// Health checks bucket reachability
func (s *GCSStore) Health(ctx context.Context) error {
	_, err := s.client.Bucket(s.bucket).Attrs(ctx)
	if err != nil {
		return fmt.Errorf("bucket %s unreachable: %w", s.bucket, err)
	}
	return nil
}
