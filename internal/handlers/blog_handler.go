package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/assocosmetologie/backend/internal/middleware"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BlogService is the interface that wraps methods for the public blog
type BlogService interface {
	// Method ListPublished retrieves one page of published posts without content.
	ListPublished(ctx context.Context, filter models.ArticleFilter) (*models.ArticleList, error)
	// Method GetPublished retrieves a published post by slug with rendered content and related posts.
	//
	// Drafts are reported as models.ErrArticleNotFound; member-only posts return
	// models.ErrMembershipRequired unless callerID is an active member or an admin.
	GetPublished(ctx context.Context, slug string, callerID int64) (*models.ArticleDetail, error)
	// Method Categories returns the number of published posts per category.
	Categories(ctx context.Context) ([]models.CategoryCount, error)
}

// BlogHandler handles public blog HTTP requests
type BlogHandler struct {
	BaseHandler
	blogService BlogService
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(blogService BlogService, logger *zap.Logger) *BlogHandler {
	return &BlogHandler{
		BaseHandler: BaseHandler{Logger: logger},
		blogService: blogService,
	}
}

// RegisterRoutes registers all blog handler routes
// Note: This assumes the router is already scoped to /api/v1 and wrapped by OptionalAuthMiddleware
func (h *BlogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/blog", func(r chi.Router) {
		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{slug}", h.GetPost)
		r.Get("/categories", h.Categories)
	})
}

// ListPosts handles GET /blog/posts
// @Summary List published posts
// @Tags blog
// @Produce json
// @Param category query string false "Category"
// @Param search query string false "Full-text search in title, excerpt, content and tags"
// @Param featured query bool false "Only featured posts"
// @Param page query int false "Page number (default: 1)"
// @Param limit query int false "Posts per page (default: 10, max: 50)"
// @Success 200 {object} models.APIResponse{data=models.ArticleList} "Posts"
// @Failure 400 {object} models.APIResponse "Invalid filter"
// @Router /blog/posts [get]
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.ArticleFilter{
		Category: models.ArticleCategory(query.Get("category")),
		Search:   query.Get("search"),
		Featured: query.Get("featured") == "true",
	}

	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filter.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filter.Limit = l
		}
	}

	list, err := h.blogService.ListPublished(r.Context(), filter)
	if err != nil {
		h.RespondServiceError(w, err, "list posts")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", list)
}

// GetPost handles GET /blog/posts/{slug}
// @Summary Read a post
// @Description Counts one view and returns the post with sanitised HTML content and up to 3 related posts.
// @Tags blog
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} models.APIResponse{data=models.ArticleDetail} "Post"
// @Failure 403 {object} models.APIResponse "Reserved to members"
// @Failure 404 {object} models.APIResponse "Post not found"
// @Router /blog/posts/{slug} [get]
func (h *BlogHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if slug == "" {
		h.RespondError(w, http.StatusBadRequest, "invalid slug")
		return
	}

	callerID, _ := middleware.GetUserID(r.Context())
	detail, err := h.blogService.GetPublished(r.Context(), slug, callerID)
	if err != nil {
		h.RespondServiceError(w, err, "get post")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", detail)
}

// Categories handles GET /blog/categories
// @Summary Blog categories
// @Tags blog
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.CategoryCount} "Categories with post counts"
// @Router /blog/categories [get]
func (h *BlogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.blogService.Categories(r.Context())
	if err != nil {
		h.RespondServiceError(w, err, "list categories")
		return
	}

	h.RespondSuccess(w, http.StatusOK, "", categories)
}
