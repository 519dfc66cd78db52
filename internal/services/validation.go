package services

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/assocosmetologie/backend/internal/auth"
	"github.com/assocosmetologie/backend/internal/models"
)

// emailRegex accepts anything shaped like local@domain.tld
var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Field length limits for events
const (
	eventTitleMaxLength       = 100
	eventDescriptionMaxLength = 1000
)

// Column sizes of the users and registrations tables, in characters
const (
	personNameMaxLength   = 100
	attendeeNameMaxLength = 200
	emailMaxLength        = 255
	phoneMaxLength        = 50
	postalCodeMaxLength   = 20
	placeMaxLength        = 100
	freeTextMaxLength     = 255
	// notes is a TEXT column of 65535 bytes, four bytes per character at worst
	notesMaxLength = 16000
)

// fieldLength pairs a request field with its column size
type fieldLength struct {
	field string
	value string
	max   int
}

// checkLengths records an error for every trimmed value longer than its column
func checkLengths(verr *models.ValidationError, fields ...fieldLength) {
	for _, f := range fields {
		if utf8.RuneCountInString(strings.TrimSpace(f.value)) > f.max {
			verr.Add(f.field, fmt.Sprintf("%s must be at most %d characters", f.field, f.max))
		}
	}
}

// normalizeEmail trims and lowercases an e-mail address
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// isValidEmail reports whether email looks like an e-mail address
func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// validatePassword checks the minimal password policy
func validatePassword(verr *models.ValidationError, field, password string) {
	if password == "" {
		verr.Add(field, "password is required")
		return
	}
	switch {
	case utf8.RuneCountInString(password) < auth.MinPasswordLength:
		verr.Add(field, "password must be at least 6 characters")
	case len(password) > auth.MaxPasswordBytes:
		verr.Add(field, "password must be at most 72 bytes")
	}
}

// normalizeTags trims tags, drops empty ones and removes duplicates while keeping the first occurrence
func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, tag)
	}
	return result
}

// trimList trims every entry and drops the empty ones
func trimList(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}

// validateRegistrationRequest checks the fields of a public membership registration
func validateRegistrationRequest(req *models.RegisterRequest) error {
	verr := models.NewValidationError()

	if strings.TrimSpace(req.FirstName) == "" {
		verr.Add("firstName", "first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		verr.Add("lastName", "last name is required")
	}
	if req.Email == "" {
		verr.Add("email", "email is required")
	} else if !isValidEmail(req.Email) {
		verr.Add("email", "invalid email format")
	}
	validatePassword(verr, "password", req.Password)
	if req.ProfessionalStatus != "" && !req.ProfessionalStatus.IsValid() {
		verr.Add("professionalStatus", "unknown professional status")
	}
	if req.MembershipPlan != "" && !req.MembershipPlan.IsValid() {
		verr.Add("plan", "unknown membership plan")
	}
	checkLengths(verr,
		fieldLength{"firstName", req.FirstName, personNameMaxLength},
		fieldLength{"lastName", req.LastName, personNameMaxLength},
		fieldLength{"email", req.Email, emailMaxLength},
		fieldLength{"phone", req.Phone, phoneMaxLength},
		fieldLength{"company", req.Company, freeTextMaxLength},
		fieldLength{"profession", req.Profession, freeTextMaxLength},
		fieldLength{"address", req.Address, freeTextMaxLength},
		fieldLength{"postalCode", req.PostalCode, postalCodeMaxLength},
		fieldLength{"city", req.City, placeMaxLength},
		fieldLength{"country", req.Country, placeMaxLength},
	)

	return verr.OrNil()
}

// validateMemberRequest checks an admin member create or update request.
// The password is mandatory only on creation.
func validateMemberRequest(req *models.MemberRequest, creating bool) error {
	verr := models.NewValidationError()

	if strings.TrimSpace(req.FirstName) == "" {
		verr.Add("firstName", "first name is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		verr.Add("lastName", "last name is required")
	}
	if req.Email == "" {
		verr.Add("email", "email is required")
	} else if !isValidEmail(req.Email) {
		verr.Add("email", "invalid email format")
	}
	if creating || req.Password != "" {
		validatePassword(verr, "password", req.Password)
	}
	if req.Role != "" && !req.Role.IsValid() {
		verr.Add("role", "unknown role")
	}
	if req.ProfessionalStatus != "" && !req.ProfessionalStatus.IsValid() {
		verr.Add("professionalStatus", "unknown professional status")
	}
	if req.MembershipPlan != "" && !req.MembershipPlan.IsValid() {
		verr.Add("membershipPlan", "unknown membership plan")
	}
	if req.MembershipStatus != "" && !req.MembershipStatus.IsValid() {
		verr.Add("membershipStatus", "unknown membership status")
	}
	checkLengths(verr,
		fieldLength{"firstName", req.FirstName, personNameMaxLength},
		fieldLength{"lastName", req.LastName, personNameMaxLength},
		fieldLength{"email", req.Email, emailMaxLength},
		fieldLength{"phone", req.Phone, phoneMaxLength},
		fieldLength{"company", req.Company, freeTextMaxLength},
		fieldLength{"profession", req.Profession, freeTextMaxLength},
		fieldLength{"address", req.Address, freeTextMaxLength},
		fieldLength{"postalCode", req.PostalCode, postalCodeMaxLength},
		fieldLength{"city", req.City, placeMaxLength},
		fieldLength{"country", req.Country, placeMaxLength},
	)

	return verr.OrNil()
}

// validateEventRequest checks an admin event create or update request
func validateEventRequest(req *models.EventRequest) error {
	verr := models.NewValidationError()

	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		verr.Add("title", "title is required")
	case utf8.RuneCountInString(title) > eventTitleMaxLength:
		verr.Add("title", "title must be at most 100 characters")
	}

	description := strings.TrimSpace(req.Description)
	switch {
	case description == "":
		verr.Add("description", "description is required")
	case utf8.RuneCountInString(description) > eventDescriptionMaxLength:
		verr.Add("description", "description must be at most 1000 characters")
	}

	if !req.Type.IsValid() {
		verr.Add("type", "unknown event type")
	}
	if req.StartDate == nil {
		verr.Add("startDate", "start date is required")
	}
	if req.EndDate == nil {
		verr.Add("endDate", "end date is required")
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		verr.Add("endDate", "end date must not be before start date")
	}
	if strings.TrimSpace(req.Location) == "" {
		verr.Add("location", "location is required")
	}
	if req.MaxAttendees != nil && *req.MaxAttendees < 1 {
		verr.Add("maxAttendees", "max attendees must be at least 1")
	}
	if req.Price < 0 {
		verr.Add("price", "price cannot be negative")
	}
	if req.MemberPrice < 0 {
		verr.Add("memberPrice", "member price cannot be negative")
	}
	if req.Status != "" && !req.Status.IsValid() {
		verr.Add("status", "unknown event status")
	}

	return verr.OrNil()
}

// validateArticleRequest checks an admin article create or update request
func validateArticleRequest(req *models.ArticleRequest) error {
	verr := models.NewValidationError()

	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		verr.Add("title", "title is required")
	case utf8.RuneCountInString(title) > models.ArticleTitleMaxLength:
		verr.Add("title", "title must be at most 200 characters")
	}

	excerpt := strings.TrimSpace(req.Excerpt)
	switch {
	case excerpt == "":
		verr.Add("excerpt", "excerpt is required")
	case utf8.RuneCountInString(excerpt) > models.ArticleExcerptMaxLength:
		verr.Add("excerpt", "excerpt must be at most 300 characters")
	}

	if strings.TrimSpace(req.Content) == "" {
		verr.Add("content", "content is required")
	}
	if req.Category == "" {
		verr.Add("category", "category is required")
	} else if !req.Category.IsValid() {
		verr.Add("category", "unknown category")
	}
	if len(normalizeTags(req.Tags)) == 0 {
		verr.Add("tags", "at least one tag is required")
	}

	return verr.OrNil()
}

// validateAttendee checks the attendee part of an event registration
func validateAttendee(req *models.EventRegistrationRequest) error {
	verr := models.NewValidationError()

	if strings.TrimSpace(req.Name) == "" {
		verr.Add("name", "name is required")
	}
	if req.Email == "" {
		verr.Add("email", "email is required")
	} else if !isValidEmail(req.Email) {
		verr.Add("email", "invalid email format")
	}
	checkLengths(verr,
		fieldLength{"name", req.Name, attendeeNameMaxLength},
		fieldLength{"email", req.Email, emailMaxLength},
		fieldLength{"company", req.Company, freeTextMaxLength},
		fieldLength{"notes", req.Notes, notesMaxLength},
	)

	return verr.OrNil()
}
