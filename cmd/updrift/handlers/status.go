package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/updrift/updrift/common/logger"
	"github.com/updrift/updrift/common/objstore"
)

// MetadataPinger verifies release metadata is reachable.
// Implemented by repository.ReleaseRepository.
type MetadataPinger interface {
	Ping(ctx context.Context) error
}

// StatusHandler answers liveness and dependency-health probes
type StatusHandler struct {
	metadata MetadataPinger
	objects  objstore.Store
	log      *logger.Logger
	started  time.Time
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(metadata MetadataPinger, objects objstore.Store, log *logger.Logger) *StatusHandler {
	return &StatusHandler{
		metadata: metadata,
		objects:  objects,
		log:      log,
		started:  time.Now(),
	}
}

// Health is the basic liveness probe; must respond quickly
// GET /health
func (h *StatusHandler) Health(c echo.Context) error {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": fmt.Sprintf("%ds", int(time.Since(h.started).Seconds())),
		"memory": map[string]string{
			"used":  fmt.Sprintf("%dMB", mem.HeapAlloc/1024/1024),
			"total": fmt.Sprintf("%dMB", mem.HeapSys/1024/1024),
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Status reports dependency health: metadata store and object store.
// 200 when everything answers, 503 otherwise.
// GET /api/status
func (h *StatusHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()
	services := map[string]string{
		"metadata_store": "ok",
		"storage":        "ok",
	}

	if err := h.metadata.Ping(ctx); err != nil {
		h.log.Error("metadata store check failed", "error", err)
		services["metadata_store"] = "error"
	}

	if err := h.objects.Health(ctx); err != nil {
		h.log.Error("object store check failed", "error", err)
		services["storage"] = "error"
	}

	status := http.StatusOK
	for _, state := range services {
		if state != "ok" {
			status = http.StatusServiceUnavailable
			break
		}
	}

	return c.JSON(status, map[string]interface{}{
		"server":    "ok",
		"uptime":    fmt.Sprintf("%ds", int(time.Since(h.started).Seconds())),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  services,
	})
}
