package handler

import (
	"net/http"
	"runtime"
	"time"

	"storefront-state-api/internal/service"
	"storefront-state-api/internal/storage"
	"storefront-state-api/pkg/response"
)

// EngineStatser is an alert engine as seen by the admin endpoint.
type EngineStatser interface {
	Stats() service.EngineStats
}

// AdminConfig wires the admin handler. Nil fields are reported as not configured.
type AdminConfig struct {
	StorageType string
	Storage     storage.StatsProvider
	Engines     []EngineStatser
	// Collections maps collection names to their current size.
	Collections map[string]func() int
	FeedLen     func() int
}

// AdminHandler handles admin-related HTTP requests.
type AdminHandler struct {
	cfg       AdminConfig
	startTime time.Time
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(cfg AdminConfig) *AdminHandler {
	return &AdminHandler{cfg: cfg, startTime: time.Now()}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := make(map[string]interface{})

	stats["uptime_seconds"] = int64(time.Since(h.startTime).Seconds())
	stats["uptime_human"] = time.Since(h.startTime).Round(time.Second).String()
	stats["server_time"] = time.Now().Format(time.RFC3339)

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	stats["memory"] = map[string]interface{}{
		"alloc_mb":      float64(memStats.Alloc) / 1024 / 1024,
		"sys_mb":        float64(memStats.Sys) / 1024 / 1024,
		"heap_inuse_mb": float64(memStats.HeapInuse) / 1024 / 1024,
		"num_gc":        memStats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
	}

	if h.cfg.Storage != nil {
		storageStats, err := h.cfg.Storage.Stats(ctx)
		if err == nil {
			storageStats["status"] = "connected"
			storageStats["type"] = h.cfg.StorageType
			stats["storage"] = storageStats
		} else {
			stats["storage"] = map[string]interface{}{
				"type":   h.cfg.StorageType,
				"status": "error",
				"error":  err.Error(),
			}
		}
	} else {
		stats["storage"] = map[string]interface{}{
			"type":   h.cfg.StorageType,
			"status": "not_configured",
		}
	}

	collections := make(map[string]int, len(h.cfg.Collections))
	for name, size := range h.cfg.Collections {
		collections[name] = size()
	}
	stats["collections"] = collections

	engines := make([]service.EngineStats, 0, len(h.cfg.Engines))
	for _, e := range h.cfg.Engines {
		engines = append(engines, e.Stats())
	}
	stats["alerts"] = engines

	if h.cfg.FeedLen != nil {
		stats["notifications"] = h.cfg.FeedLen()
	}

	stats["runtime"] = map[string]interface{}{
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"cpus":       runtime.NumCPU(),
	}

	response.OK(w, stats)
}
