package client

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/assocosmetologie/backend/internal/models"
)

// AdminExcerptMaxLength is the excerpt limit of the back-office editor
const AdminExcerptMaxLength = 200

// Password bounds mirror the server rules; bcrypt reads at most 72 bytes
const (
	MinPasswordLength = 6
	MaxPasswordBytes  = 72
)

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// IsValidEmail reports whether email looks like local@domain.tld
func IsValidEmail(email string) bool {
	return emailRegex.MatchString(strings.TrimSpace(email))
}

// Articles is the admin article resource
type Articles = Resource[models.Article, models.ArticleRequest]

// Events is the admin event resource
type Events = Resource[models.Event, models.EventRequest]

// Members is the admin member resource
type Members = Resource[models.User, models.MemberRequest]

// NewArticles creates the admin article resource, toggled with /publish
func NewArticles(c *Client, confirmer Confirmer) *Articles {
	return NewResource(c, ResourceConfig[models.Article, models.ArticleRequest]{
		Path:       "/admin/articles",
		Name:       "article",
		TogglePath: "publish",
		ID:         func(a *models.Article) int64 { return a.ID },
		Validate:   ValidateArticle,
	}, confirmer)
}

// NewEvents creates the admin event resource
func NewEvents(c *Client, confirmer Confirmer) *Events {
	return NewResource(c, ResourceConfig[models.Event, models.EventRequest]{
		Path:     "/admin/events",
		Name:     "event",
		ID:       func(e *models.Event) int64 { return e.ID },
		Validate: ValidateEvent,
	}, confirmer)
}

// NewMembers creates the admin member resource, toggled with /status
func NewMembers(c *Client, confirmer Confirmer) *Members {
	return NewResource(c, ResourceConfig[models.User, models.MemberRequest]{
		Path:       "/admin/users",
		Name:       "member",
		TogglePath: "status",
		ID:         func(u *models.User) int64 { return u.ID },
		Validate:   ValidateMember,
	}, confirmer)
}

// ValidateArticle checks an article form before it is sent
func ValidateArticle(req *models.ArticleRequest, _ bool) error {
	verr := models.NewValidationError()
	if strings.TrimSpace(req.Title) == "" {
		verr.Add("title", "title is required")
	}
	excerpt := strings.TrimSpace(req.Excerpt)
	switch {
	case excerpt == "":
		verr.Add("excerpt", "excerpt is required")
	case utf8.RuneCountInString(excerpt) > AdminExcerptMaxLength:
		verr.Add("excerpt", "excerpt must be at most 200 characters")
	}
	if strings.TrimSpace(req.Content) == "" {
		verr.Add("content", "content is required")
	}
	if req.Category == "" {
		verr.Add("category", "category is required")
	}
	if !hasTag(req.Tags) {
		verr.Add("tags", "at least one tag is required")
	}
	return verr.OrNil()
}

// ValidateEvent checks an event form before it is sent
func ValidateEvent(req *models.EventRequest, _ bool) error {
	verr := models.NewValidationError()
	if strings.TrimSpace(req.Title) == "" {
		verr.Add("title", "title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		verr.Add("description", "description is required")
	}
	if req.StartDate == nil {
		verr.Add("startDate", "start date is required")
	}
	if req.EndDate == nil {
		verr.Add("endDate", "end date is required")
	}
	if strings.TrimSpace(req.Location) == "" {
		verr.Add("location", "location is required")
	}
	return verr.OrNil()
}

// ValidateMember checks a member form before it is sent. The password is only required on create.
func ValidateMember(req *models.MemberRequest, creating bool) error {
	verr := models.NewValidationError()
	if strings.TrimSpace(req.FirstName) == "" {
		verr.Add("firstName", "first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		verr.Add("lastName", "last name is required")
	}
	if !IsValidEmail(req.Email) {
		verr.Add("email", "a valid email is required")
	}
	if creating || req.Password != "" {
		switch {
		case utf8.RuneCountInString(req.Password) < MinPasswordLength:
			verr.Add("password", "password must be at least 6 characters")
		case len(req.Password) > MaxPasswordBytes:
			verr.Add("password", "password must be at most 72 bytes")
		}
	}
	return verr.OrNil()
}

func hasTag(tags []string) bool {
	for _, t := range tags {
		if strings.TrimSpace(t) != "" {
			return true
		}
	}
	return false
}
