package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/updrift/updrift/cmd/updrift/models"
	"github.com/updrift/updrift/cmd/updrift/repository"
	"github.com/updrift/updrift/common/logger"
	"github.com/updrift/updrift/common/objstore"
)

// Download is a resolved artifact ready to stream to a client
type Download struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	Filename    string
}

// DownloadService resolves the latest release of a type to its blob
// and streams it back
type DownloadService struct {
	store    ReleaseStore
	objects  objstore.Store
	resolver PathResolver
	log      *logger.Logger
}

// NewDownloadService creates a new download service
func NewDownloadService(store ReleaseStore, objects objstore.Store, resolver PathResolver, log *logger.Logger) *DownloadService {
	return &DownloadService{
		store:    store,
		objects:  objects,
		resolver: resolver,
		log:      log,
	}
}

// Download opens a stream over the newest artifact of a type.
// ErrNotFound covers every dead end: no releases, a retired latest
// release, and a blob missing from storage. The caller owns Body.
func (s *DownloadService) Download(ctx context.Context, releaseType models.ReleaseType) (*Download, error) {
	release, err := s.store.Latest(ctx, releaseType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest release: %w", err)
	}

	objPath, ok := s.resolver.Resolve(release)
	if !ok {
		return nil, ErrNotFound
	}

	exists, err := s.objects.Exists(ctx, objPath)
	if err != nil {
		return nil, fmt.Errorf("failed to check blob existence: %w", err)
	}
	if !exists {
		s.log.Warn("release blob missing from storage", "type", releaseType, "path", objPath)
		return nil, ErrNotFound
	}

	attrs, err := s.objects.Attrs(ctx, objPath)
	if err != nil {
		if errors.Is(err, objstore.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob metadata: %w", err)
	}

	body, err := s.objects.NewReader(ctx, objPath)
	if err != nil {
		if errors.Is(err, objstore.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}

	contentType := attrs.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	filename := objPath
	if idx := strings.LastIndex(objPath, "/"); idx >= 0 {
		filename = objPath[idx+1:]
	}
	if filename == "" {
		filename = fmt.Sprintf("%s-v%s", releaseType, release.Version)
	}

	s.log.Info("streaming download", "type", releaseType, "version", release.Version, "path", objPath, "size", attrs.Size)

	return &Download{
		Body:        body,
		ContentType: contentType,
		Size:        attrs.Size,
		Filename:    filename,
	}, nil
}
