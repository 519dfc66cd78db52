package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assocosmetologie/backend/internal/models"
	"go.uber.org/zap"
)

// articleListColumns omit the body, which list endpoints never return
const articleListColumns = `
	id, title, slug, excerpt, category, tags, author_id, author, read_time, image,
	is_featured, is_member_only, is_published, view_count, published_at, created_at, updated_at`

const articleColumns = articleListColumns + `, content`

// articleRepository implements ArticleRepository
type articleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewArticleRepository creates a new article repository
func NewArticleRepository(db *sql.DB, logger *zap.Logger) *articleRepository {
	return &articleRepository{
		db:     db,
		logger: logger,
	}
}

// scanArticle reads one row selected with articleListColumns, plus content when withContent is set
func scanArticle(row rowScanner, withContent bool) (*models.Article, error) {
	var article models.Article
	var tags []byte
	var authorID sql.NullInt64
	var publishedAt sql.NullTime

	dest := []any{
		&article.ID,
		&article.Title,
		&article.Slug,
		&article.Excerpt,
		&article.Category,
		&tags,
		&authorID,
		&article.Author,
		&article.ReadTime,
		&article.Image,
		&article.IsFeatured,
		&article.IsMemberOnly,
		&article.IsPublished,
		&article.ViewCount,
		&publishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
	}
	if withContent {
		dest = append(dest, &article.Content)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if article.Tags, err = decodeList(tags); err != nil {
		return nil, err
	}
	article.AuthorID = authorID.Int64
	if publishedAt.Valid {
		t := publishedAt.Time
		article.PublishedAt = &t
	}

	return &article, nil
}

// articleWhere builds the WHERE clause shared by List and its count query
func articleWhere(filter models.ArticleFilter) (string, []any) {
	var whereClauses []string
	var args []any

	if filter.PublishedOnly {
		whereClauses = append(whereClauses, "is_published = TRUE")
	}
	if filter.Category != "" {
		whereClauses = append(whereClauses, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Featured {
		whereClauses = append(whereClauses, "is_featured = TRUE")
	}
	if filter.Search != "" {
		// Tags are stored as a JSON array, a LIKE on its text form matches partial tags as well
		whereClauses = append(whereClauses, "(title LIKE ? OR excerpt LIKE ? OR content LIKE ? OR CAST(tags AS CHAR) LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	if len(whereClauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(whereClauses, " AND "), args
}

// List retrieves one page of articles matching the filter, newest first,
// together with the total number of matching articles
func (r *articleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int, error) {
	whereClause, args := articleWhere(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM articles ` + whereClause
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("failed to count articles", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}

	columns := articleListColumns
	if filter.WithContent {
		columns = articleColumns
	}
	query := `SELECT` + columns + `
		FROM articles
		` + whereClause + `
		ORDER BY COALESCE(published_at, created_at) DESC, id DESC
	`
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		page := max(filter.Page, 1)
		args = append(args, filter.Limit, (page-1)*filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query articles", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows, filter.WithContent)
		if err != nil {
			r.logger.Error("failed to scan article", zap.Error(err))
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}

	return articles, total, nil
}

// GetByID retrieves an article with its content by ID
func (r *articleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `SELECT` + articleColumns + `
		FROM articles
		WHERE id = ?
		LIMIT 1
	`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, id), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrArticleNotFound
	}
	if err != nil {
		r.logger.Error("failed to get article by id", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get article by id: %w", err)
	}

	return article, nil
}

// GetBySlug retrieves an article with its content by slug
func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := `SELECT` + articleColumns + `
		FROM articles
		WHERE slug = ?
		LIMIT 1
	`

	article, err := scanArticle(r.db.QueryRowContext(ctx, query, slug), true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrArticleNotFound
	}
	if err != nil {
		r.logger.Error("failed to get article by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("failed to get article by slug: %w", err)
	}

	return article, nil
}

// IncrementViews adds one view to an article
func (r *articleRepository) IncrementViews(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE articles SET view_count = view_count + 1 WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to increment views", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to increment views: %w", err)
	}

	return checkAffected(result, models.ErrArticleNotFound)
}

// Related retrieves up to limit published articles of the same category, excluding one article
func (r *articleRepository) Related(ctx context.Context, category models.ArticleCategory, excludeID int64, limit int) ([]models.Article, error) {
	query := `SELECT` + articleListColumns + `
		FROM articles
		WHERE is_published = TRUE AND category = ? AND id <> ?
		ORDER BY published_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, category, excludeID, limit)
	if err != nil {
		r.logger.Error("failed to query related articles", zap.Error(err))
		return nil, fmt.Errorf("failed to query related articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows, false)
		if err != nil {
			r.logger.Error("failed to scan article", zap.Error(err))
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return articles, nil
}

// CountByCategory returns published article counts per category, most populated first
func (r *articleRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	query := `
		SELECT category, COUNT(*) AS total
		FROM articles
		WHERE is_published = TRUE
		GROUP BY category
		ORDER BY total DESC, category ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to count articles by category", zap.Error(err))
		return nil, fmt.Errorf("failed to count articles by category: %w", err)
	}
	defer rows.Close()

	counts := []models.CategoryCount{}
	for rows.Next() {
		var count models.CategoryCount
		if err := rows.Scan(&count.Name, &count.Count); err != nil {
			r.logger.Error("failed to scan category count", zap.Error(err))
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts = append(counts, count)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}

// ExistsBySlug checks whether a slug is used by an article other than excludeID
func (r *articleRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM articles WHERE slug = ? AND id <> ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, slug, excludeID).Scan(&exists); err != nil {
		r.logger.Error("failed to check slug existence", zap.Error(err), zap.String("slug", slug))
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}

	return exists, nil
}

// Create inserts a new article and sets its ID
func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	tags, err := encodeList(article.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO articles (
			title, slug, excerpt, content, category, tags, author_id, author, read_time, image,
			is_featured, is_member_only, is_published, published_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		article.Title, article.Slug, article.Excerpt, article.Content, article.Category, tags,
		nullableAuthor(article.AuthorID), article.Author, article.ReadTime, article.Image,
		article.IsFeatured, article.IsMemberOnly, article.IsPublished, nullableTime(article.PublishedAt),
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrSlugTaken
		}
		r.logger.Error("failed to create article", zap.Error(err))
		return fmt.Errorf("failed to create article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	article.ID = id
	return nil
}

// Update overwrites the editable fields of an article. View count and author ID are kept.
func (r *articleRepository) Update(ctx context.Context, article *models.Article) error {
	tags, err := encodeList(article.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE articles
		SET title = ?, slug = ?, excerpt = ?, content = ?, category = ?, tags = ?, author = ?, read_time = ?, image = ?,
			is_featured = ?, is_member_only = ?, is_published = ?, published_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		article.Title, article.Slug, article.Excerpt, article.Content, article.Category, tags, article.Author, article.ReadTime, article.Image,
		article.IsFeatured, article.IsMemberOnly, article.IsPublished, nullableTime(article.PublishedAt),
		article.ID,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrSlugTaken
		}
		r.logger.Error("failed to update article", zap.Error(err), zap.Int64("id", article.ID))
		return fmt.Errorf("failed to update article: %w", err)
	}

	return checkAffected(result, models.ErrArticleNotFound)
}

// TogglePublish flips the published flag of an article, stamping published_at on first publication
func (r *articleRepository) TogglePublish(ctx context.Context, id int64, now time.Time) error {
	// MySQL evaluates single-table assignments left to right, so published_at sees the new flag
	query := `
		UPDATE articles
		SET is_published = NOT is_published,
			published_at = IF(is_published, COALESCE(published_at, ?), published_at)
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		r.logger.Error("failed to toggle article publication", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to toggle article publication: %w", err)
	}

	return checkAffected(result, models.ErrArticleNotFound)
}

// Delete removes an article permanently
func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete article", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete article: %w", err)
	}

	return checkAffected(result, models.ErrArticleNotFound)
}

// CountPublished returns the number of published articles
func (r *articleRepository) CountPublished(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles WHERE is_published = TRUE`).Scan(&count); err != nil {
		r.logger.Error("failed to count published articles", zap.Error(err))
		return 0, fmt.Errorf("failed to count published articles: %w", err)
	}
	return count, nil
}

// nullableAuthor stores a zero author ID as NULL
func nullableAuthor(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
