package handlers

import (
	"context"
	"net/http"

	"github.com/assocosmetologie/backend/internal/middleware"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProfileService is the interface that wraps methods for self-service profile business logic
type ProfileService interface {
	// GetProfile retrieves the profile of the authenticated user
	//
	// If user with such ID does not exist, models.ErrUserNotFound will be returned together with "nil" value.
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	// UpdateProfile applies the non-nil fields of req to the user's profile
	//
	// If some field is invalid, a *models.ValidationError will be returned together with "nil" value.
	UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.User, error)
	// ChangePassword replaces the password after checking the current one
	//
	// A wrong current password is reported as a *models.ValidationError on "currentPassword".
	ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error
}

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	BaseHandler
	profileService ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileService ProfileService, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		profileService: profileService,
	}
}

// RegisterRoutes registers all profile handler routes
// Note: This assumes the router is already scoped to /api/v1 and guarded by AuthMiddleware
func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	// Flat paths: /auth is shared with the public auth routes registered in another group
	r.Get("/auth/profile", h.GetProfile)
	r.Put("/auth/profile", h.UpdateProfile)
	r.Put("/auth/password", h.ChangePassword)
}

// GetProfile handles GET /auth/profile
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.User} "Profile"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /auth/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	user, err := h.profileService.GetProfile(r.Context(), userID)
	if err != nil {
		h.RespondServiceError(w, err, "get profile")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", user)
}

// UpdateProfile handles PUT /auth/profile
// @Summary Update own profile
// @Description Only the provided fields are changed. E-mail, role and membership are not self-editable.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.APIResponse{data=models.User} "Updated profile"
// @Failure 400 {object} models.APIResponse "Invalid fields"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /auth/profile [put]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.profileService.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "update profile")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "profile updated", user)
}

// ChangePassword handles PUT /auth/password
// @Summary Change own password
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} models.APIResponse "Password changed"
// @Failure 400 {object} models.APIResponse "Invalid or wrong current password"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Router /auth/password [put]
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var req models.ChangePasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.profileService.ChangePassword(r.Context(), userID, &req); err != nil {
		h.RespondServiceError(w, err, "change password")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "password changed", nil)
}

func (h *ProfileHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.RespondError(w, http.StatusUnauthorized, "authentication required")
		return 0, false
	}
	return userID, true
}
