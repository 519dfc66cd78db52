package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/assocosmetologie/backend/internal/middleware"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminMemberService is the interface that wraps methods for member administration
type AdminMemberService interface {
	// Method List retrieves users filtered by role, membership status and a search on name or e-mail.
	List(ctx context.Context, filter models.UserListFilter) ([]models.User, error)
	// Method Get retrieves one user.
	//
	// If user with such ID does not exist, models.ErrUserNotFound will be returned together with "nil" value.
	Get(ctx context.Context, id int64) (*models.User, error)
	// Method Create validates and stores a new member with its password.
	Create(ctx context.Context, req *models.MemberRequest) (*models.User, error)
	// Method Update validates and overwrites a member; a non-empty password also resets it.
	Update(ctx context.Context, id int64, req *models.MemberRequest) (*models.User, error)
	// Method ToggleStatus flips the activation flag of a member.
	//
	// "actorID" is the admin performing the change, who cannot deactivate their own account (models.ErrForbidden).
	ToggleStatus(ctx context.Context, id, actorID int64) (*models.User, error)
	// Method SetPassword replaces the password of a member.
	SetPassword(ctx context.Context, id int64, req *models.SetPasswordRequest) error
	// Method Delete removes a member permanently; admins cannot delete themselves.
	Delete(ctx context.Context, id, actorID int64) error
}

// AdminMemberHandler handles member administration HTTP requests
type AdminMemberHandler struct {
	BaseHandler
	memberService AdminMemberService
}

// NewAdminMemberHandler creates a new admin member handler
func NewAdminMemberHandler(memberService AdminMemberService, logger *zap.Logger) *AdminMemberHandler {
	return &AdminMemberHandler{
		BaseHandler:   BaseHandler{Logger: logger},
		memberService: memberService,
	}
}

// RegisterRoutes registers all admin member routes
// Note: This assumes the router is already scoped to /api/v1 and restricted to admins
func (h *AdminMemberHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/users", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/status", h.ToggleStatus)
		r.Patch("/{id}/password", h.SetPassword)
	})
}

// List handles GET /admin/users
// @Summary List members
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Param role query string false "Role"
// @Param membershipStatus query string false "Membership status"
// @Param search query string false "Search in name or e-mail"
// @Success 200 {object} models.APIResponse{data=[]models.User} "Members"
// @Router /admin/users [get]
func (h *AdminMemberHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.UserListFilter{
		Role:             models.Role(query.Get("role")),
		MembershipStatus: models.MembershipStatus(query.Get("membershipStatus")),
		Search:           strings.TrimSpace(query.Get("search")),
	}

	users, err := h.memberService.List(r.Context(), filter)
	if err != nil {
		h.RespondServiceError(w, err, "list members")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", users)
}

// Get handles GET /admin/users/{id}
// @Summary Get member
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.APIResponse{data=models.User} "Member"
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /admin/users/{id} [get]
func (h *AdminMemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.memberService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "get member")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", user)
}

// Create handles POST /admin/users
// @Summary Create member
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.MemberRequest true "Member"
// @Success 201 {object} models.APIResponse{data=models.User} "Member created"
// @Failure 400 {object} models.APIResponse "Invalid fields"
// @Failure 409 {object} models.APIResponse "E-mail already registered"
// @Router /admin/users [post]
func (h *AdminMemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MemberRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.memberService.Create(r.Context(), &req)
	if err != nil {
		h.RespondServiceError(w, err, "create member")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "member created", user)
}

// Update handles PUT /admin/users/{id}
// @Summary Update member
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.MemberRequest true "Member"
// @Success 200 {object} models.APIResponse{data=models.User} "Member updated"
// @Failure 400 {object} models.APIResponse "Invalid fields"
// @Failure 404 {object} models.APIResponse "User not found"
// @Failure 409 {object} models.APIResponse "E-mail already registered"
// @Router /admin/users/{id} [put]
func (h *AdminMemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	var req models.MemberRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	user, err := h.memberService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "update member")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "member updated", user)
}

// ToggleStatus handles PATCH /admin/users/{id}/status
// @Summary Activate or deactivate member
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.APIResponse{data=models.User} "Member with flipped activation flag"
// @Failure 403 {object} models.APIResponse "Own account"
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /admin/users/{id}/status [patch]
func (h *AdminMemberHandler) ToggleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	actorID, _ := middleware.GetUserID(r.Context())
	user, err := h.memberService.ToggleStatus(r.Context(), id, actorID)
	if err != nil {
		h.RespondServiceError(w, err, "toggle member status")
		return
	}

	message := "member deactivated"
	if user.IsActive {
		message = "member activated"
	}
	h.RespondSuccess(w, http.StatusOK, message, user)
}

// SetPassword handles PATCH /admin/users/{id}/password
// @Summary Reset member password
// @Tags admin-users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body models.SetPasswordRequest true "New password"
// @Success 200 {object} models.APIResponse "Password updated"
// @Failure 400 {object} models.APIResponse "Invalid password"
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /admin/users/{id}/password [patch]
func (h *AdminMemberHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	var req models.SetPasswordRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	if err := h.memberService.SetPassword(r.Context(), id, &req); err != nil {
		h.RespondServiceError(w, err, "set member password")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "password updated", nil)
}

// Delete handles DELETE /admin/users/{id}
// @Summary Delete member
// @Tags admin-users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.APIResponse "Member deleted"
// @Failure 403 {object} models.APIResponse "Own account"
// @Failure 404 {object} models.APIResponse "User not found"
// @Router /admin/users/{id} [delete]
func (h *AdminMemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	actorID, _ := middleware.GetUserID(r.Context())
	if err := h.memberService.Delete(r.Context(), id, actorID); err != nil {
		h.RespondServiceError(w, err, "delete member")
		return
	}

	h.Logger.Info("member deleted", zap.Int64("user_id", id), zap.Int64("actor_id", actorID))
	h.RespondSuccess(w, http.StatusOK, "member deleted", nil)
}
