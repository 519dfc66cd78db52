package handlers

import (
	"context"
	"net/http"

	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminEventService is the interface that wraps methods for event administration
type AdminEventService interface {
	// Method List retrieves every event ordered by start date.
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	// Method Get retrieves one event.
	Get(ctx context.Context, id int64) (*models.Event, error)
	// Method Create validates and stores a new event.
	Create(ctx context.Context, req *models.EventRequest) (*models.Event, error)
	// Method Update validates and overwrites an event, keeping its attendee count.
	//
	// models.ErrCapacityBelowCount is returned when the new capacity is lower than the attendee count.
	Update(ctx context.Context, id int64, req *models.EventRequest) (*models.Event, error)
	// Method Delete removes an event with its registrations.
	Delete(ctx context.Context, id int64) error
	// Method ListRegistrations retrieves the registrations of an event.
	ListRegistrations(ctx context.Context, eventID int64) ([]models.Registration, error)
}

// AdminEventHandler handles event administration HTTP requests
type AdminEventHandler struct {
	BaseHandler
	eventService AdminEventService
}

// NewAdminEventHandler creates a new admin event handler
func NewAdminEventHandler(eventService AdminEventService, logger *zap.Logger) *AdminEventHandler {
	return &AdminEventHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		eventService: eventService,
	}
}

// RegisterRoutes registers all admin event routes
// Note: This assumes the router is already scoped to /api/v1 and restricted to admins
func (h *AdminEventHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/events", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Get("/{id}/registrations", h.ListRegistrations)
	})
}

// List handles GET /admin/events
// @Summary List all events
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Event} "Events"
// @Router /admin/events [get]
func (h *AdminEventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context(), models.EventFilter{})
	if err != nil {
		h.RespondServiceError(w, err, "list events")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", events)
}

// Get handles GET /admin/events/{id}
// @Summary Get event
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} models.APIResponse{data=models.Event} "Event"
// @Failure 404 {object} models.APIResponse "Event not found"
// @Router /admin/events/{id} [get]
func (h *AdminEventHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	event, err := h.eventService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "get event")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", event)
}

// Create handles POST /admin/events
// @Summary Create event
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.EventRequest true "Event"
// @Success 201 {object} models.APIResponse{data=models.Event} "Event created"
// @Failure 400 {object} models.APIResponse "Invalid fields"
// @Router /admin/events [post]
func (h *AdminEventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.EventRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	event, err := h.eventService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "create event")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "event created", event)
}

// Update handles PUT /admin/events/{id}
// @Summary Update event
// @Tags admin-events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Param request body models.EventRequest true "Event"
// @Success 200 {object} models.APIResponse{data=models.Event} "Event updated"
// @Failure 400 {object} models.APIResponse "Invalid fields"
// @Failure 404 {object} models.APIResponse "Event not found"
// @Failure 409 {object} models.APIResponse "Capacity lower than attendee count"
// @Router /admin/events/{id} [put]
func (h *AdminEventHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	var req models.EventRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	event, err := h.eventService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "update event")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "event updated", event)
}

// Delete handles DELETE /admin/events/{id}
// @Summary Delete event
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} models.APIResponse "Event deleted"
// @Failure 404 {object} models.APIResponse "Event not found"
// @Router /admin/events/{id} [delete]
func (h *AdminEventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "delete event")
		return
	}

	h.Logger.Info("event deleted", zap.Int64("event_id", id))
	h.RespondSuccess(w, http.StatusOK, "event deleted", nil)
}

// ListRegistrations handles GET /admin/events/{id}/registrations
// @Summary List event registrations
// @Tags admin-events
// @Produce json
// @Security BearerAuth
// @Param id path int true "Event ID"
// @Success 200 {object} models.APIResponse{data=[]models.Registration} "Registrations"
// @Failure 404 {object} models.APIResponse "Event not found"
// @Router /admin/events/{id}/registrations [get]
func (h *AdminEventHandler) ListRegistrations(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	registrations, err := h.eventService.ListRegistrations(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "list registrations")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", registrations)
}
