package handlers

import (
	"context"
	"net/http"

	"github.com/assocosmetologie/backend/internal/middleware"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// EventService is the interface that wraps methods for public event business logic
type EventService interface {
	// Method List retrieves events matching the filter ordered by start date.
	//
	// If the filter names an unknown type or status, a *models.ValidationError is returned.
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	// Method Get retrieves one event.
	//
	// If event with such ID does not exist, models.ErrEventNotFound will be returned together with "nil" value.
	Get(ctx context.Context, id int64) (*models.Event, error)
	// Method Register books one seat for the attendee.
	//
	// "callerID" is the authenticated user or 0. Only an active membership of that user grants the member price.
	//
	// models.ErrCapacityExceeded, models.ErrRegistrationClosed and models.ErrMembershipRequired
	// report refused registrations; no seat is consumed in that case.
	Register(ctx context.Context, eventID int64, req *models.EventRegistrationRequest, callerID int64) (*models.RegistrationConfirmation, error)
}

// EventHandler handles public event HTTP requests
type EventHandler struct {
	BaseHandler
	eventService EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{
		BaseHandler:  BaseHandler{Logger: logger},
		eventService: eventService,
	}
}

// RegisterRoutes registers all event handler routes
// Note: This assumes the router is already scoped to /api/v1 and wrapped by OptionalAuthMiddleware
func (h *EventHandler) RegisterRoutes(r chi.Router) {
	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/register", h.Register)
	})
}

// List handles GET /events
// @Summary List events
// @Tags events
// @Produce json
// @Param type query string false "Event type"
// @Param status query string false "Event status"
// @Param featured query bool false "Only featured events"
// @Success 200 {object} models.APIResponse{data=[]models.Event} "Events"
// @Failure 400 {object} models.APIResponse "Invalid filter"
// @Router /events [get]
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.EventFilter{
		Type:     models.EventType(query.Get("type")),
		Status:   models.EventStatus(query.Get("status")),
		Featured: query.Get("featured") == "true",
	}

	events, err := h.eventService.List(r.Context(), filter)
	if err != nil {
		h.RespondServiceError(w, err, "list events")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", events)
}

// Get handles GET /events/{id}
// @Summary Get event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} models.APIResponse{data=models.Event} "Event"
// @Failure 400 {object} models.APIResponse "Invalid event ID"
// @Failure 404 {object} models.APIResponse "Event not found"
// @Router /events/{id} [get]
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
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

// Register handles POST /events/{id}/register
// @Summary Register for an event
// @Description Books one seat. Signed-in active members get the member price.
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body models.EventRegistrationRequest true "Attendee"
// @Success 201 {object} models.APIResponse{data=models.RegistrationConfirmation} "Registration confirmed"
// @Failure 400 {object} models.APIResponse "Invalid attendee"
// @Failure 403 {object} models.APIResponse "Event reserved to members"
// @Failure 404 {object} models.APIResponse "Event not found"
// @Failure 409 {object} models.APIResponse "Event full or registration closed"
// @Router /events/{id}/register [post]
func (h *EventHandler) Register(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	var req models.EventRegistrationRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	callerID, _ := middleware.GetUserID(r.Context())
	confirmation, err := h.eventService.Register(r.Context(), id, &req, callerID)
	if err != nil {
		h.RespondServiceError(w, err, "register for event")
		return
	}

	h.Logger.Info("event registration",
		zap.Int64("event_id", id),
		zap.Bool("member_pricing", confirmation.MemberPricing),
	)
	h.RespondSuccess(w, http.StatusCreated, "registration successful", confirmation)
}
