package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"

	"github.com/updrift/updrift/cmd/updrift/models"
	"github.com/updrift/updrift/common/logger"
	"github.com/updrift/updrift/common/objstore"
)

// uploadChunkSize is the unit of streaming into the object store; each
// chunk produces at most one progress frame.
const uploadChunkSize = 512 * 1024

// UploadRequest describes a validated incoming artifact
type UploadRequest struct {
	Type        models.ReleaseType
	Version     string
	RawNotes    string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// UploadService runs the release upload pipeline: duplicate check,
// streamed object write with progress, record creation, retirement of
// superseded blobs.
type UploadService struct {
	store   ReleaseStore
	objects objstore.Store
	cache   Cache
	log     *logger.Logger
}

// NewUploadService creates a new upload service. cache may be nil.
func NewUploadService(store ReleaseStore, objects objstore.Store, cache Cache, log *logger.Logger) *UploadService {
	return &UploadService{
		store:   store,
		objects: objects,
		cache:   cache,
		log:     log,
	}
}

// Upload checks preconditions synchronously, then streams the artifact
// into the object store. The returned channel carries ordered progress
// frames with monotonically non-decreasing percentages ending at 100,
// terminated by a complete or error frame, and is closed afterwards.
// The channel is unbuffered: the consumer's transport provides the
// backpressure on the storage write.
//
// Errors returned directly are detected before any side effect:
// ErrDuplicateVersion when (type, version) is already recorded. The
// duplicate check and the later record creation are not atomic;
// concurrent uploads of the same version can both pass.
func (s *UploadService) Upload(ctx context.Context, req UploadRequest) (<-chan models.UploadEvent, error) {
	exists, err := s.store.VersionExists(ctx, req.Type, req.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate version: %w", err)
	}
	if exists {
		return nil, ErrDuplicateVersion
	}

	objPath := DerivePath(req.Type, req.Version, req.FileName)
	log := s.log.WithRelease(string(req.Type), req.Version)
	log.Info("starting upload", "path", objPath, "size", req.Size)

	events := make(chan models.UploadEvent)
	go s.run(ctx, req, objPath, log, events)
	return events, nil
}

func (s *UploadService) run(ctx context.Context, req UploadRequest, objPath string, log *logger.Logger, events chan<- models.UploadEvent) {
	defer close(events)

	fail := func(stage string, err error) {
		log.Error("upload failed", "stage", stage, "error", err)
		s.emit(ctx, events, models.NewErrorEvent(err))
	}

	hasher := sha256.New()
	writer := s.objects.NewWriter(ctx, objPath, objstore.WriterOptions{
		ContentType: req.ContentType,
		Metadata: map[string]string{
			"type":    string(req.Type),
			"version": req.Version,
		},
	})

	var written int64
	lastPercent := 0
	buf := make([]byte, uploadChunkSize)

	for {
		n, readErr := req.Body.Read(buf)
		if n > 0 {
			hasher.Write(buf[:n])
			if _, err := writer.Write(buf[:n]); err != nil {
				// Writer abandoned without Close: no object is
				// committed, and no metadata record is created.
				fail("store write", err)
				return
			}

			written += int64(n)
			percent := lastPercent
			if req.Size > 0 {
				percent = int(written * 100 / req.Size)
			}
			if percent > 100 {
				percent = 100
			}
			if percent < lastPercent {
				percent = lastPercent
			}
			lastPercent = percent
			if !s.emit(ctx, events, models.NewProgressEvent(percent, written, req.Size)) {
				return
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			fail("read payload", readErr)
			return
		}
	}

	if err := writer.Close(); err != nil {
		fail("store commit", err)
		return
	}

	if lastPercent < 100 {
		if !s.emit(ctx, events, models.NewProgressEvent(100, written, req.Size)) {
			return
		}
	}

	release := &models.Release{
		Type:         req.Type,
		Version:      req.Version,
		GCSPath:      &objPath,
		FileHash:     fmt.Sprintf("sha256:%x", hasher.Sum(nil)),
		FileSize:     written,
		ReleaseNotes: ParseReleaseNotes(req.RawNotes),
	}

	if err := s.store.Create(ctx, release); err != nil {
		fail("create record", err)
		return
	}
	log.Info("release recorded", "id", release.ID, "hash", release.FileHash)

	s.invalidateLatest(ctx, req.Type)

	// Retirement runs strictly after the new record is durable: a
	// crash mid-retirement leaves stale old blobs behind but never
	// loses the new release.
	if err := s.retire(ctx, req.Type, req.Version, log); err != nil {
		fail("retire old releases", err)
		return
	}

	s.emit(ctx, events, models.NewCompleteEvent(release))
	log.Info("upload complete", "id", release.ID)
}

// retire deletes superseded blobs of the same type and clears their
// storage paths. Blob deletion is best-effort; metadata records are
// kept for changelog history.
func (s *UploadService) retire(ctx context.Context, releaseType models.ReleaseType, keepVersion string, log *logger.Logger) error {
	others, err := s.store.ListOthers(ctx, releaseType, keepVersion)
	if err != nil {
		return err
	}

	log.Info("retiring old releases", "count", len(others))
	for _, old := range others {
		if old.GCSPath != nil && *old.GCSPath != "" {
			if err := s.objects.Delete(ctx, *old.GCSPath); err != nil {
				log.Warn("failed to delete retired blob", "path", *old.GCSPath, "error", err)
			}
		}
		if err := s.store.ClearPath(ctx, old.ID); err != nil {
			return err
		}
	}

	return nil
}

func (s *UploadService) invalidateLatest(ctx context.Context, releaseType models.ReleaseType) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, latestCacheKey(releaseType)); err != nil {
		s.log.Warn("failed to invalidate latest cache", "type", releaseType, "error", err)
	}
}

// emit delivers an event unless the consumer is gone
func (s *UploadService) emit(ctx context.Context, events chan<- models.UploadEvent, event models.UploadEvent) bool {
	select {
	case events <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

// ParseReleaseNotes interprets the raw release_notes form value: a JSON
// array of strings when it parses as one, otherwise a single-element
// list of the raw value, otherwise empty.
func ParseReleaseNotes(raw string) []string {
	if raw == "" {
		return []string{}
	}

	var notes []string
	if err := json.Unmarshal([]byte(raw), &notes); err == nil {
		return notes
	}

	return []string{raw}
}
