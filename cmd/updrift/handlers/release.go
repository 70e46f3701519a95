package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/cmd/updrift/models"
	"github.com/updrift/updrift/cmd/updrift/service"
	"github.com/updrift/updrift/common/logger"
)

// ReleaseHandler handles artifact upload and download
type ReleaseHandler struct {
	uploads        *service.UploadService
	downloads      *service.DownloadService
	maxUploadBytes int64
	log            *logger.Logger
}

// NewReleaseHandler creates a new release handler
func NewReleaseHandler(uploads *service.UploadService, downloads *service.DownloadService, maxUploadBytes int64, log *logger.Logger) *ReleaseHandler {
	return &ReleaseHandler{
		uploads:        uploads,
		downloads:      downloads,
		maxUploadBytes: maxUploadBytes,
		log:            log,
	}
}

// Upload accepts a multipart artifact and streams progress back as
// server-sent events. Validation and the duplicate-version check run
// before the stream starts, so those failures are plain HTTP statuses;
// anything after the status line is committed arrives as a terminal
// error frame.
// POST /api/releases
func (h *ReleaseHandler) Upload(c echo.Context) error {
	file, err := c.FormFile("file")
	releaseType := c.FormValue("type")
	version := c.FormValue("version")
	rawNotes := c.FormValue("release_notes")

	if err != nil || releaseType == "" || version == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Missing required fields: file, type, version",
		})
	}

	if !models.ReleaseType(releaseType).Valid() {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Type must be 'msi' or 'vm'",
		})
	}

	if file.Size <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Uploaded file is empty",
		})
	}

	if file.Size > h.maxUploadBytes {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": fmt.Sprintf("File exceeds maximum upload size of %d bytes", h.maxUploadBytes),
		})
	}

	src, err := file.Open()
	if err != nil {
		h.log.Error("failed to open uploaded file", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Internal server error",
		})
	}
	defer src.Close()

	events, err := h.uploads.Upload(c.Request().Context(), service.UploadRequest{
		Type:        models.ReleaseType(releaseType),
		Version:     version,
		RawNotes:    rawNotes,
		FileName:    file.Filename,
		ContentType: file.Header.Get(echo.HeaderContentType),
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateVersion) {
			return c.JSON(http.StatusConflict, map[string]interface{}{
				"error": fmt.Sprintf("Version %s already exists for type %s", version, releaseType),
			})
		}
		h.log.Error("upload rejected", "type", releaseType, "version", version, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Internal server error",
		})
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			h.log.Error("failed to marshal upload event", "error", err)
			continue
		}
		if _, err := fmt.Fprintf(resp, "data: %s\n\n", payload); err != nil {
			// Client went away; the pipeline notices via context
			return nil
		}
		resp.Flush()
	}

	return nil
}

// Download streams the newest artifact of a type
// GET /api/releases/download?type=msi|vm
func (h *ReleaseHandler) Download(c echo.Context) error {
	releaseType := c.QueryParam("type")
	if !models.ReleaseType(releaseType).Valid() {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error": "Query param 'type' must be 'msi' or 'vm'",
		})
	}

	download, err := h.downloads.Download(c.Request().Context(), models.ReleaseType(releaseType))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"error": fmt.Sprintf("No %s release available for download", releaseType),
			})
		}
		h.log.Error("download failed", "type", releaseType, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error": "Internal server error",
		})
	}
	defer download.Body.Close()

	resp := c.Response()
	resp.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	if download.Size > 0 {
		resp.Header().Set(echo.HeaderContentLength, strconv.FormatInt(download.Size, 10))
	}

	return c.Stream(http.StatusOK, download.ContentType, download.Body)
}
