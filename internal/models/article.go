package models

import "time"

// ArticleCategory is the blog category of an article
type ArticleCategory string

// ArticleCategory constants
const (
	CategoryMakeup     ArticleCategory = "Maquillage"
	CategoryCare       ArticleCategory = "Soins"
	CategoryNatural    ArticleCategory = "Naturel"
	CategoryNutrition  ArticleCategory = "Nutrition"
	CategoryPerfume    ArticleCategory = "Parfum"
	CategoryInnovation ArticleCategory = "Innovation"
	CategoryTrends     ArticleCategory = "Tendances"
)

// ArticleCategories lists every accepted category
var ArticleCategories = []ArticleCategory{
	CategoryMakeup, CategoryCare, CategoryNatural, CategoryNutrition, CategoryPerfume, CategoryInnovation, CategoryTrends,
}

// IsValid reports whether the category is known
func (c ArticleCategory) IsValid() bool {
	for _, known := range ArticleCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Article length limits
const (
	ArticleTitleMaxLength   = 200
	ArticleExcerptMaxLength = 300
)

// Article represents a blog post
type Article struct {
	ID           int64           `json:"id"`
	Title        string          `json:"title"`
	Slug         string          `json:"slug"`
	Excerpt      string          `json:"excerpt"`
	Content      string          `json:"content,omitempty"`
	ContentHTML  string          `json:"contentHtml,omitempty"`
	Category     ArticleCategory `json:"category"`
	Tags         []string        `json:"tags"`
	AuthorID     int64           `json:"authorId"`
	Author       string          `json:"author"`
	ReadTime     string          `json:"readTime,omitempty"`
	Image        string          `json:"image,omitempty"`
	IsFeatured   bool            `json:"isFeatured"`
	IsMemberOnly bool            `json:"isMemberOnly"`
	IsPublished  bool            `json:"isPublished"`
	ViewCount    int             `json:"viewCount"`
	PublishedAt  *time.Time      `json:"publishedAt,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ArticleRequest is used by admins to create or update an article
type ArticleRequest struct {
	Title        string          `json:"title"`
	Excerpt      string          `json:"excerpt"`
	Content      string          `json:"content"`
	Category     ArticleCategory `json:"category"`
	Tags         []string        `json:"tags"`
	Author       string          `json:"author,omitempty"`
	ReadTime     string          `json:"readTime,omitempty"`
	Image        string          `json:"image,omitempty"`
	IsFeatured   bool            `json:"isFeatured"`
	IsMemberOnly bool            `json:"isMemberOnly"`
	IsPublished  bool            `json:"isPublished"`
}

// ArticleFilter narrows article listings
type ArticleFilter struct {
	Category      ArticleCategory
	Search        string
	Featured      bool
	PublishedOnly bool
	WithContent   bool
	Page          int
	Limit         int
}

// Pagination describes a page of results
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPosts int `json:"totalPosts"`
	TotalPages int `json:"totalPages"`
}

// ArticleList is a page of articles
type ArticleList struct {
	Posts      []Article  `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

// ArticleDetail is a single published article with related posts
type ArticleDetail struct {
	Post         *Article  `json:"post"`
	RelatedPosts []Article `json:"relatedPosts"`
}

// CategoryCount is the number of published posts in a category
type CategoryCount struct {
	Name  ArticleCategory `json:"name"`
	Count int             `json:"count"`
}
