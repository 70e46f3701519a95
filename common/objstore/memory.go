package objstore

import (
	"bytes"
	"context"
	"io"
	"sync"
)

// MemoryStore keeps objects in process memory. Used in development when
// no bucket is configured, and by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]*memObject
}

type memObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]*memObject),
	}
}

// NewWriter opens a buffered write; the object is committed on Close
func (s *MemoryStore) NewWriter(ctx context.Context, path string, opts WriterOptions) io.WriteCloser {
	return &memWriter{
		store: s,
		path:  path,
		opts:  opts,
	}
}

// NewReader opens a read over a snapshot of the object bytes
func (s *MemoryStore) NewReader(ctx context.Context, path string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[path]
	if !ok {
		return nil, ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Exists reports whether an object is present at path
func (s *MemoryStore) Exists(ctx context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.objects[path]
	return ok, nil
}

// Attrs returns object metadata
func (s *MemoryStore) Attrs(ctx context.Context, path string) (*ObjectAttrs, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[path]
	if !ok {
		return nil, ErrNotExist
	}
	return &ObjectAttrs{
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
	}, nil
}

// Delete removes the object at path
func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[path]; !ok {
		return ErrNotExist
	}
	delete(s.objects, path)
	return nil
}

// Health always succeeds
func (s *MemoryStore) Health(ctx context.Context) error {
	return nil
}

type memWriter struct {
	store *MemoryStore
	path  string
	opts  WriterOptions
	buf   bytes.Buffer
}

func (w *memWriter) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *memWriter) Close() error {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()

	w.store.objects[w.path] = &memObject{
		data:        w.buf.Bytes(),
		contentType: w.opts.ContentType,
		metadata:    w.opts.Metadata,
	}
	return nil
}
