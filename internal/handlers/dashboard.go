// internal/handlers/dashboard.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/smartgrocer/grocery-be/internal/adapters/redis_adapter"
	"github.com/smartgrocer/grocery-be/internal/core/domain"
	"github.com/smartgrocer/grocery-be/internal/core/ports"
)

// DashboardHandler serves aggregate inventory statistics
type DashboardHandler struct {
	store    ports.InventoryStore
	cache    ports.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(store ports.InventoryStore, cache ports.CacheRepository, cacheTTL time.Duration, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		store:    store,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With(slog.String("handler", "dashboard")),
	}
}

// DashboardData is the dashboard response payload
type DashboardData struct {
	Stats     domain.InventoryStats `json:"stats"`
	Mode      string                `json:"mode"`
	Timestamp time.Time             `json:"timestamp"`
}

// GetDashboard handles GET /api/dashboard
//
// Statistics come from the cache when present; the entry is invalidated
// by the store after every mutation.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	load := func() (interface{}, error) {
		return &DashboardData{
			Stats:     h.store.Stats(),
			Mode:      string(h.store.Mode()),
			Timestamp: time.Now(),
		}, nil
	}

	var dashboard DashboardData
	if h.cache != nil {
		cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "stats")
		if err := h.cache.GetOrSet(ctx, cacheKey, &dashboard, load, h.cacheTTL); err != nil {
			h.logger.WarnContext(ctx, "dashboard cache unavailable, serving direct",
				slog.String("error", err.Error()))
			fresh, _ := load()
			dashboard = *fresh.(*DashboardData)
		}
	} else {
		fresh, _ := load()
		dashboard = *fresh.(*DashboardData)
	}

	h.respondJSON(w, http.StatusOK, dashboard)
}

// Helper methods

func (h *DashboardHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
