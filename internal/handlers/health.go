package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/marcogenualdo/taddoist/internal/store"
)

type HealthHandler struct {
	storeType string
	store     store.Store
	providers []string
	version   string
	logger    *slog.Logger
	startTime time.Time
}

func NewHealthHandler(storeType string, st store.Store, providers []string, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		storeType: storeType,
		store:     st,
		providers: providers,
		version:   version,
		logger:    logger,
		startTime: time.Now(),
	}
}

type HealthResponse struct {
	Status    string      `json:"status"`
	Version   string      `json:"version"`
	Uptime    string      `json:"uptime"`
	Store     StoreHealth `json:"store"`
	Providers []string    `json:"providers"`
}

type StoreHealth struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	response := HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Providers: h.providers,
	}

	response.Store.Type = h.storeType
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("store health check failed", "type", h.storeType, "error", err)
		response.Store.Status = "unreachable"
		response.Status = "degraded"
	} else {
		response.Store.Status = "connected"
	}

	w.Header().Set("Content-Type", "application/json")
	if response.Status != "healthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	json.NewEncoder(w).Encode(response)
}
