package handlers

import (
	"context"
	"net/http"

	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AuthService is the interface that wraps methods for authentication business logic.
type AuthService interface {
	// Method Register validates a membership application, creates a pending member and signs it in.
	//
	// "req" parameter contains the applicant's identity, profession and chosen plan.
	//
	// If the data is invalid a *models.ValidationError is returned, models.ErrEmailTaken when the e-mail is used.
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error)
	// Method Login checks the credentials and returns a fresh access token with the user.
	//
	// Unknown e-mails and wrong passwords both return models.ErrInvalidCredentials,
	// disabled accounts return models.ErrAccountDisabled.
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)
}

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		BaseHandler: BaseHandler{Logger: logger},
		authService: authService,
	}
}

// RegisterRoutes registers all auth handler routes
// Note: This assumes the router is already scoped to /api/v1
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
}

// Register handles POST /auth/register
// @Summary Apply for membership
// @Description Creates a pending membership and returns an access token with the new member.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.RegisterRequest true "Membership application"
// @Success 201 {object} models.APIResponse{data=models.AuthResponse} "Member registered"
// @Failure 400 {object} models.APIResponse "Invalid request body or fields"
// @Failure 409 {object} models.APIResponse "E-mail already registered"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "register member")
		return
	}

	h.Logger.Info("member registered", zap.Int64("user_id", resp.User.ID))
	h.RespondSuccess(w, http.StatusCreated, "registration successful", resp)
}

// Login handles POST /auth/login
// @Summary Sign in
// @Description Authenticates with e-mail and password and returns an access token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse{data=models.AuthResponse} "Login successful"
// @Failure 400 {object} models.APIResponse "Missing fields"
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 403 {object} models.APIResponse "Account disabled"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "login user")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "login successful", resp)
}
