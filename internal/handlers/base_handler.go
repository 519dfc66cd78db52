// Package handlers exposes the services over HTTP
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BaseHandler provides common handler functionality
type BaseHandler struct {
	Logger *zap.Logger
}

// RespondJSON sends a JSON response
func (h *BaseHandler) RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", zap.Error(err))
	}
}

// RespondSuccess wraps data in the success envelope
func (h *BaseHandler) RespondSuccess(w http.ResponseWriter, status int, message string, data any) {
	resp := models.APIResponse{Success: true, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			h.Logger.Error("failed to encode response data", zap.Error(err))
			h.RespondError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		resp.Data = raw
	}
	h.RespondJSON(w, status, resp)
}

// RespondError sends an error envelope
func (h *BaseHandler) RespondError(w http.ResponseWriter, status int, message string) {
	h.RespondJSON(w, status, models.APIResponse{Success: false, Error: message})
}

// RespondServiceError maps a service error to its HTTP status.
// Unexpected errors are logged and answered with a generic message.
func (h *BaseHandler) RespondServiceError(w http.ResponseWriter, err error, action string) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		h.RespondJSON(w, http.StatusBadRequest, models.APIResponse{
			Success: false,
			Error:   "validation failed",
			Fields:  verr.Fields,
		})
		return
	}

	status := statusForError(err)
	if status == http.StatusInternalServerError {
		h.Logger.Error("failed to "+action, zap.Error(err))
		h.RespondError(w, status, "internal server error")
		return
	}

	h.Logger.Debug("request rejected", zap.String("action", action), zap.Int("status", status), zap.Error(err))
	h.RespondError(w, status, err.Error())
}

// statusForError returns the HTTP status of a domain error
func statusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrAccountDisabled),
		errors.Is(err, models.ErrMembershipRequired),
		errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrSlugTaken),
		errors.Is(err, models.ErrCapacityExceeded),
		errors.Is(err, models.ErrCapacityBelowCount),
		errors.Is(err, models.ErrRegistrationClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into dst and answers 400 (or 413) on failure.
// It returns false when a response has already been written.
func (h *BaseHandler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		h.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseID reads a positive integer path parameter and answers 400 when it is malformed
func (h *BaseHandler) parseID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		h.RespondError(w, http.StatusBadRequest, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return id, true
}
