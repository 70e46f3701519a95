package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/cmd/updrift/models"
	"github.com/updrift/updrift/cmd/updrift/service"
	"github.com/updrift/updrift/common/logger"
)

// VersionHandler answers release metadata queries
type VersionHandler struct {
	queries *service.QueryService
	log     *logger.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(queries *service.QueryService, log *logger.Logger) *VersionHandler {
	return &VersionHandler{
		queries: queries,
		log:     log,
	}
}

// Latest returns the newest release of a type, storage fields stripped
// GET /api/versions/latest?type=msi|vm
func (h *VersionHandler) Latest(c echo.Context) error {
	releaseType := c.QueryParam("type")
	if !models.ReleaseType(releaseType).Valid() {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Query param 'type' must be 'msi' or 'vm'",
		})
	}

	summary, err := h.queries.Latest(c.Request().Context(), models.ReleaseType(releaseType))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"error": fmt.Sprintf("No %s releases found", releaseType),
			})
		}
		h.log.Error("latest query failed", "type", releaseType, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, summary)
}

// List returns a page of releases, newest first
// GET /api/versions?type=msi|vm&limit=10&offset=0
func (h *VersionHandler) List(c echo.Context) error {
	// An absent or unknown type means no filter, matching the
	// permissive list semantics of the original API
	var releaseType models.ReleaseType
	if t := models.ReleaseType(c.QueryParam("type")); t.Valid() {
		releaseType = t
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	summaries, err := h.queries.List(c.Request().Context(), releaseType, limit, offset)
	if err != nil {
		h.log.Error("list query failed", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, models.ListReleasesResponse{
		Releases: summaries,
		Count:    len(summaries),
	})
}

// Changelog returns the notes history of a type
// GET /api/versions/changelog?type=msi|vm
func (h *VersionHandler) Changelog(c echo.Context) error {
	releaseType := c.QueryParam("type")
	if !models.ReleaseType(releaseType).Valid() {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Query param 'type' must be 'msi' or 'vm'",
		})
	}

	entries, err := h.queries.Changelog(c.Request().Context(), models.ReleaseType(releaseType))
	if err != nil {
		h.log.Error("changelog query failed", "type", releaseType, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, models.ChangelogResponse{
		Type:      models.ReleaseType(releaseType),
		Changelog: entries,
	})
}
