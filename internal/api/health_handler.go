package api

import (
	"context"
	"net/http"
	"time"

	"github.com/mroshb/value_matcher/pkg/logger"
)

type healthResponse struct {
	Status              string `json:"status"`
	Database            string `json:"database"`
	EmbeddingProvider   string `json:"embedding_provider"`
	EmbeddingConfigured bool   `json:"embedding_configured"`
	EmbeddingBreaker    string `json:"embedding_breaker,omitempty"`
}

func (h *handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:              "healthy",
		Database:            "ok",
		EmbeddingProvider:   h.deps.EmbeddingProvider,
		EmbeddingConfigured: h.deps.EmbeddingConfigured,
	}
	if h.deps.Embeddings != nil {
		resp.EmbeddingBreaker = h.deps.Embeddings.State()
	}

	status := http.StatusOK
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.deps.DB.Ping(ctx); err != nil {
		logger.Warn("Health check failed: database unreachable", "error", err)
		resp.Status = "unhealthy"
		resp.Database = "unreachable"
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, resp)
}
