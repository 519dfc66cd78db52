package handlers

import (
	"context"
	"net/http"

	"github.com/assocosmetologie/backend/internal/middleware"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminArticleService is the interface that wraps methods for article administration
type AdminArticleService interface {
	// Method ListAll retrieves every article, drafts included, with content.
	ListAll(ctx context.Context) ([]models.Article, error)
	// Method Get retrieves one article for editing.
	Get(ctx context.Context, id int64) (*models.Article, error)
	// Method Create validates and stores a new article; its slug is derived from the title.
	Create(ctx context.Context, authorID int64, req *models.ArticleRequest) (*models.Article, error)
	// Method Update validates and overwrites an article; a new title yields a new slug.
	Update(ctx context.Context, id int64, req *models.ArticleRequest) (*models.Article, error)
	// Method TogglePublish flips the published flag and returns the updated article.
	TogglePublish(ctx context.Context, id int64) (*models.Article, error)
	// Method Delete removes an article permanently.
	Delete(ctx context.Context, id int64) error
}

// AdminArticleHandler handles article administration HTTP requests
type AdminArticleHandler struct {
	BaseHandler
	articleService AdminArticleService
}

// NewAdminArticleHandler creates a new admin article handler
func NewAdminArticleHandler(articleService AdminArticleService, logger *zap.Logger) *AdminArticleHandler {
	return &AdminArticleHandler{
		BaseHandler:    BaseHandler{Logger: logger},
		articleService: articleService,
	}
}

// RegisterRoutes registers all admin article routes
// Note: This assumes the router is already scoped to /api/v1 and restricted to admins
func (h *AdminArticleHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin/articles", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Patch("/{id}/publish", h.TogglePublish)
	})
}

// List handles GET /admin/articles
// @Summary List all articles
// @Tags admin-articles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=[]models.Article} "Articles"
// @Router /admin/articles [get]
func (h *AdminArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.articleService.ListAll(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "list articles")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", articles)
}

// Get handles GET /admin/articles/{id}
// @Summary Get article
// @Tags admin-articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} models.APIResponse{data=models.Article} "Article"
// @Failure 404 {object} models.APIResponse "Article not found"
// @Router /admin/articles/{id} [get]
func (h *AdminArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	article, err := h.articleService.Get(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "get article")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", article)
}

// Create handles POST /admin/articles
// @Summary Create article
// @Tags admin-articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ArticleRequest true "Article"
// @Success 201 {object} models.APIResponse{data=models.Article} "Article created"
// @Failure 400 {object} models.APIResponse "Invalid fields"
// @Router /admin/articles [post]
func (h *AdminArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ArticleRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	authorID, _ := middleware.GetUserID(r.Context())
	article, err := h.articleService.Create(r.Context(), authorID, &req)
	if err != nil {
		h.RespondServiceError(w, err, "create article")
		return
	}

	h.RespondSuccess(w, http.StatusCreated, "article created", article)
}

// Update handles PUT /admin/articles/{id}
// @Summary Update article
// @Tags admin-articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Param request body models.ArticleRequest true "Article"
// @Success 200 {object} models.APIResponse{data=models.Article} "Article updated"
// @Failure 400 {object} models.APIResponse "Invalid fields"
// @Failure 404 {object} models.APIResponse "Article not found"
// @Router /admin/articles/{id} [put]
func (h *AdminArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	var req models.ArticleRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	article, err := h.articleService.Update(r.Context(), id, &req)
	if err != nil {
		h.RespondServiceError(w, err, "update article")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "article updated", article)
}

// TogglePublish handles PATCH /admin/articles/{id}/publish
// @Summary Publish or unpublish article
// @Tags admin-articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} models.APIResponse{data=models.Article} "Article with flipped published flag"
// @Failure 404 {object} models.APIResponse "Article not found"
// @Router /admin/articles/{id}/publish [patch]
func (h *AdminArticleHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	article, err := h.articleService.TogglePublish(r.Context(), id)
	if err != nil {
		h.RespondServiceError(w, err, "toggle article publication")
		return
	}

	message := "article unpublished"
	if article.IsPublished {
		message = "article published"
	}
	h.RespondSuccess(w, http.StatusOK, message, article)
}

// Delete handles DELETE /admin/articles/{id}
// @Summary Delete article
// @Tags admin-articles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Article ID"
// @Success 200 {object} models.APIResponse "Article deleted"
// @Failure 404 {object} models.APIResponse "Article not found"
// @Router /admin/articles/{id} [delete]
func (h *AdminArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r, "id")
	if !ok {
		return
	}

	if err := h.articleService.Delete(r.Context(), id); err != nil {
		h.RespondServiceError(w, err, "delete article")
		return
	}

	h.Logger.Info("article deleted", zap.Int64("article_id", id))
	h.RespondSuccess(w, http.StatusOK, "article deleted", nil)
}
