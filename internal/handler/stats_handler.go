package handler

import (
	"net/http"

	"om-traders/internal/model"
	"om-traders/internal/service"

	"github.com/rs/zerolog"
)

// StatsHandler serves the dashboard summary.
type StatsHandler struct {
	service service.StatsService
	logger  zerolog.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(service service.StatsService, logger zerolog.Logger) *StatsHandler {
	return &StatsHandler{
		service: service,
		logger:  logger.With().Str("handler", "stats").Logger(),
	}
}

// Dashboard handles GET /api/stats requests.
func (h *StatsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Dashboard(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError,
			"failed to compute dashboard stats", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
