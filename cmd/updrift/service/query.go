package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/updrift/updrift/cmd/updrift/models"
	"github.com/updrift/updrift/cmd/updrift/repository"
	"github.com/updrift/updrift/common/logger"
)

const (
	defaultListLimit = 10
	maxListLimit     = 50

	// latestCacheTTL bounds staleness when an invalidation is missed
	latestCacheTTL = time.Minute
)

func latestCacheKey(releaseType models.ReleaseType) string {
	return fmt.Sprintf("latest:%s", releaseType)
}

// QueryService answers latest / list / changelog queries over release
// metadata, with storage fields hidden from clients.
type QueryService struct {
	store    ReleaseStore
	cache    Cache
	resolver PathResolver
	log      *logger.Logger
}

// NewQueryService creates a new query service. cache may be nil.
func NewQueryService(store ReleaseStore, cache Cache, resolver PathResolver, log *logger.Logger) *QueryService {
	return &QueryService{
		store:    store,
		cache:    cache,
		resolver: resolver,
		log:      log,
	}
}

// Latest returns the most recent release of a type
func (s *QueryService) Latest(ctx context.Context, releaseType models.ReleaseType) (*models.ReleaseSummary, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, latestCacheKey(releaseType)); err == nil {
			summary := &models.ReleaseSummary{}
			if err := json.Unmarshal([]byte(cached), summary); err == nil {
				return summary, nil
			}
		}
	}

	release, err := s.store.Latest(ctx, releaseType)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest release: %w", err)
	}

	summary := s.summarize(release)

	if s.cache != nil {
		if data, err := json.Marshal(summary); err == nil {
			if err := s.cache.SetWithExpiry(ctx, latestCacheKey(releaseType), string(data), latestCacheTTL); err != nil {
				s.log.Warn("failed to cache latest release", "type", releaseType, "error", err)
			}
		}
	}

	return summary, nil
}

// List returns a page of releases ordered by creation time descending,
// optionally filtered by type. Limit is clamped to [1, 50], default 10.
func (s *QueryService) List(ctx context.Context, releaseType models.ReleaseType, limit, offset int) ([]*models.ReleaseSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	releases, err := s.store.List(ctx, releaseType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list releases: %w", err)
	}

	summaries := make([]*models.ReleaseSummary, 0, len(releases))
	for _, release := range releases {
		summaries = append(summaries, s.summarize(release))
	}

	return summaries, nil
}

// Changelog returns the full notes history of a type, newest first
func (s *QueryService) Changelog(ctx context.Context, releaseType models.ReleaseType) ([]*models.ChangelogEntry, error) {
	releases, err := s.store.ListByType(ctx, releaseType)
	if err != nil {
		return nil, fmt.Errorf("failed to load changelog: %w", err)
	}

	entries := make([]*models.ChangelogEntry, 0, len(releases))
	for _, release := range releases {
		notes := release.ReleaseNotes
		if notes == nil {
			notes = []string{}
		}
		entries = append(entries, &models.ChangelogEntry{
			Version:      release.Version,
			ReleaseNotes: notes,
			CreatedAt:    release.CreatedAt,
		})
	}

	return entries, nil
}

// summarize strips storage fields and derives has_download
func (s *QueryService) summarize(release *models.Release) *models.ReleaseSummary {
	notes := release.ReleaseNotes
	if notes == nil {
		notes = []string{}
	}

	_, hasDownload := s.resolver.Resolve(release)

	return &models.ReleaseSummary{
		ID:           release.ID,
		Type:         release.Type,
		Version:      release.Version,
		FileHash:     release.FileHash,
		FileSize:     release.FileSize,
		ReleaseNotes: notes,
		CreatedAt:    release.CreatedAt,
		HasDownload:  hasDownload,
	}
}
