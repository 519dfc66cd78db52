package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assocosmetologie/backend/internal/content"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/assocosmetologie/backend/internal/slug"
	"go.uber.org/zap"
)

// Blog listing defaults
const (
	DefaultPageSize   = 10
	MaxPageSize       = 50
	relatedPostsLimit = 3
	// slugAttempts bounds the search for a free slug suffix
	slugAttempts = 100
)

// ArticleRepository is the interface that wraps methods for Article table data access
type ArticleRepository interface {
	// Method List retrieves one page of articles and the total number of matches.
	List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int, error)
	// Method GetByID retrieves an article with its content.
	//
	// If article with such ID does not exist, models.ErrArticleNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	// Method GetBySlug retrieves an article with its content.
	//
	// If article with such slug does not exist, models.ErrArticleNotFound will be returned together with "nil" value.
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	// Method IncrementViews adds one view to an article.
	IncrementViews(ctx context.Context, id int64) error
	// Method Related retrieves published articles of the same category.
	Related(ctx context.Context, category models.ArticleCategory, excludeID int64, limit int) ([]models.Article, error)
	// Method CountByCategory returns published article counts per category.
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)
	// Method ExistsBySlug checks whether a slug is used by another article.
	ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error)
	// Method Create inserts a new article, its ID is set on success.
	Create(ctx context.Context, article *models.Article) error
	// Method Update overwrites the editable fields of an article.
	Update(ctx context.Context, article *models.Article) error
	// Method TogglePublish flips the published flag of an article.
	TogglePublish(ctx context.Context, id int64, now time.Time) error
	// Method Delete removes an article permanently.
	Delete(ctx context.Context, id int64) error
	// Method CountPublished returns the number of published articles.
	CountPublished(ctx context.Context) (int, error)
}

// articleService implements ArticleService
type articleService struct {
	articleRepo ArticleRepository
	members     MemberLookup
	logger      *zap.Logger
	now         func() time.Time
}

// NewArticleService creates a new article service
func NewArticleService(articleRepo ArticleRepository, members MemberLookup, logger *zap.Logger) *articleService {
	return &articleService{
		articleRepo: articleRepo,
		members:     members,
		logger:      logger,
		now:         time.Now,
	}
}

// ListPublished returns one page of published posts without their content
func (s *articleService) ListPublished(ctx context.Context, filter models.ArticleFilter) (*models.ArticleList, error) {
	if filter.Category != "" && !filter.Category.IsValid() {
		verr := models.NewValidationError()
		verr.Add("category", "unknown category")
		return nil, verr
	}

	filter.PublishedOnly = true
	filter.WithContent = false
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}

	posts, total, err := s.articleRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &models.ArticleList{
		Posts: posts,
		Pagination: models.Pagination{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPosts: total,
			TotalPages: (total + filter.Limit - 1) / filter.Limit,
		},
	}, nil
}

// GetPublished returns a published post with rendered content and related posts,
// counting one more view. Member-only posts require callerID to hold an active membership.
func (s *articleService) GetPublished(ctx context.Context, slugValue string, callerID int64) (*models.ArticleDetail, error) {
	if !slug.IsValid(slugValue) {
		return nil, models.ErrArticleNotFound
	}

	article, err := s.articleRepo.GetBySlug(ctx, slugValue)
	if err != nil {
		return nil, err
	}
	if !article.IsPublished {
		return nil, models.ErrArticleNotFound
	}

	if article.IsMemberOnly {
		allowed, err := s.canReadMemberContent(ctx, callerID)
		if err != nil {
			return nil, err
		}
		if !allowed {
			return nil, models.ErrMembershipRequired
		}
	}

	if err := s.articleRepo.IncrementViews(ctx, article.ID); err != nil {
		return nil, err
	}
	article.ViewCount++

	html, err := content.Render(article.Content)
	if err != nil {
		return nil, err
	}
	article.ContentHTML = html

	related, err := s.articleRepo.Related(ctx, article.Category, article.ID, relatedPostsLimit)
	if err != nil {
		return nil, err
	}

	return &models.ArticleDetail{Post: article, RelatedPosts: related}, nil
}

// Categories returns published post counts per category
func (s *articleService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	return s.articleRepo.CountByCategory(ctx)
}

// ListAll returns every article, drafts included, with content for editing
func (s *articleService) ListAll(ctx context.Context) ([]models.Article, error) {
	articles, _, err := s.articleRepo.List(ctx, models.ArticleFilter{WithContent: true})
	return articles, err
}

// Get returns one article for editing
func (s *articleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	return s.articleRepo.GetByID(ctx, id)
}

// Create validates and stores a new article written by the user authorID.
// The author's full name is used as byline unless the request names one.
func (s *articleService) Create(ctx context.Context, authorID int64, req *models.ArticleRequest) (*models.Article, error) {
	if err := validateArticleRequest(req); err != nil {
		return nil, err
	}

	article := &models.Article{}
	applyArticleRequest(article, req)

	if authorID != 0 {
		author, err := s.members.GetByID(ctx, authorID)
		switch {
		case errors.Is(err, models.ErrNotFound):
			// account removed since the token was issued, publish without author link
		case err != nil:
			return nil, err
		default:
			article.AuthorID = author.ID
			if article.Author == "" {
				article.Author = author.FullName()
			}
		}
	}

	articleSlug, err := s.uniqueSlug(ctx, article.Title, 0)
	if err != nil {
		return nil, err
	}
	article.Slug = articleSlug

	now := s.now()
	if article.IsPublished {
		article.PublishedAt = &now
	}
	article.CreatedAt, article.UpdatedAt = now, now

	if err := s.articleRepo.Create(ctx, article); err != nil {
		return nil, err
	}

	return article, nil
}

// Update validates and overwrites an article. A changed title yields a new slug.
func (s *articleService) Update(ctx context.Context, id int64, req *models.ArticleRequest) (*models.Article, error) {
	if err := validateArticleRequest(req); err != nil {
		return nil, err
	}

	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousTitle := article.Title
	applyArticleRequest(article, req)

	if article.Title != previousTitle {
		articleSlug, err := s.uniqueSlug(ctx, article.Title, article.ID)
		if err != nil {
			return nil, err
		}
		article.Slug = articleSlug
	}

	now := s.now()
	if article.IsPublished && article.PublishedAt == nil {
		article.PublishedAt = &now
	}

	if err := s.articleRepo.Update(ctx, article); err != nil {
		return nil, err
	}
	article.UpdatedAt = now

	return article, nil
}

// TogglePublish flips only the published flag of an article and returns the updated article
func (s *articleService) TogglePublish(ctx context.Context, id int64) (*models.Article, error) {
	if err := s.articleRepo.TogglePublish(ctx, id, s.now()); err != nil {
		return nil, err
	}
	return s.articleRepo.GetByID(ctx, id)
}

// Delete removes an article permanently
func (s *articleService) Delete(ctx context.Context, id int64) error {
	return s.articleRepo.Delete(ctx, id)
}

// uniqueSlug derives a slug from title, suffixing -2, -3, ... while it collides with another article
func (s *articleService) uniqueSlug(ctx context.Context, title string, excludeID int64) (string, error) {
	base := slug.Make(title)
	if base == "" {
		verr := models.NewValidationError()
		verr.Add("title", "title must contain letters or digits")
		return "", verr
	}

	for n := 1; n <= slugAttempts; n++ {
		candidate := slug.WithSuffix(base, n)
		taken, err := s.articleRepo.ExistsBySlug(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s", models.ErrSlugTaken, base)
}

// canReadMemberContent reports whether the caller may read member-only posts
func (s *articleService) canReadMemberContent(ctx context.Context, callerID int64) (bool, error) {
	if callerID == 0 {
		return false, nil
	}

	user, err := s.members.GetByID(ctx, callerID)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return user.IsAdmin() || user.IsActiveMember(), nil
}

// applyArticleRequest copies a validated request onto an article
func applyArticleRequest(article *models.Article, req *models.ArticleRequest) {
	article.Title = strings.TrimSpace(req.Title)
	article.Excerpt = strings.TrimSpace(req.Excerpt)
	article.Content = req.Content
	article.Category = req.Category
	article.Tags = normalizeTags(req.Tags)
	article.Image = strings.TrimSpace(req.Image)
	article.IsFeatured = req.IsFeatured
	article.IsMemberOnly = req.IsMemberOnly
	article.IsPublished = req.IsPublished

	if author := strings.TrimSpace(req.Author); author != "" {
		article.Author = author
	}

	article.ReadTime = strings.TrimSpace(req.ReadTime)
	if article.ReadTime == "" {
		article.ReadTime = content.ReadTime(article.Content)
	}
}
