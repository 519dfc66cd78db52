package handlers

import (
	"context"
	"net/http"

	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// StatsService is the interface that wraps the back-office overview
type StatsService interface {
	// Method Overview gathers member, event, article and registration counters.
	Overview(ctx context.Context) (*models.AdminStats, error)
}

// StatsHandler handles the admin overview
type StatsHandler struct {
	BaseHandler
	statsService StatsService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService StatsService, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		statsService: statsService,
	}
}

// RegisterRoutes registers the stats route
// Note: This assumes the router is already scoped to /api/v1 and restricted to admins
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/stats", h.Overview)
}

// Overview handles GET /admin/stats
// @Summary Back-office overview
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.AdminStats} "Counters"
// @Router /admin/stats [get]
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Overview(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "load stats")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", stats)
}
