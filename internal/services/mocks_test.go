package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/assocosmetologie/backend/internal/auth"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/stretchr/testify/require"
)

var (
	errMockDB  = errors.New("database error")
	fixedNow   = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	fixedClock = func() time.Time { return fixedNow }
)

var (
	hashCacheMu sync.Mutex
	hashCache   = map[string]string{}
)

// mustHash returns a bcrypt hash of password, computed once per test binary
func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashCacheMu.Lock()
	defer hashCacheMu.Unlock()

	if hash, ok := hashCache[password]; ok {
		return hash
	}
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	hashCache[password] = hash
	return hash
}

// mockUserRepository is an in-memory implementation of MemberRepository
type mockUserRepository struct {
	mu     sync.Mutex
	users  map[int64]*models.User
	nextID int64
	err    error

	lastLoginErr error
	createCalls  int
}

func newMockUserRepository(users ...*models.User) *mockUserRepository {
	m := &mockUserRepository{users: map[int64]*models.User{}, nextID: 100}
	for _, u := range users {
		clone := *u
		m.users[u.ID] = &clone
	}
	return m
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return models.ErrEmailTaken
		}
	}
	m.nextID++
	user.ID = m.nextID
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	existing, ok := m.users[user.ID]
	if !ok {
		return models.ErrUserNotFound
	}
	clone := *user
	clone.PasswordHash = existing.PasswordHash
	clone.IsActive = existing.IsActive
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	u, ok := m.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *mockUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lastLoginErr != nil {
		return m.lastLoginErr
	}
	if u, ok := m.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

func (m *mockUserRepository) List(ctx context.Context, filter models.UserListFilter) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	users := []models.User{}
	for _, u := range m.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.MembershipStatus != "" && u.MembershipStatus != filter.MembershipStatus {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(u.Email+" "+u.FirstName+" "+u.LastName), strings.ToLower(filter.Search)) {
			continue
		}
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users, nil
}

func (m *mockUserRepository) ToggleActive(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return false, models.ErrUserNotFound
	}
	u.IsActive = !u.IsActive
	return u.IsActive, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.users[id]; !ok {
		return models.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) CountByMembershipStatus(ctx context.Context) (map[models.MembershipStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	counts := map[models.MembershipStatus]int{}
	for _, u := range m.users {
		if u.Role == models.RoleMember {
			counts[u.MembershipStatus]++
		}
	}
	return counts, nil
}

// mockEventRepository is an in-memory implementation of EventRepository.
// Register claims seats under a mutex, mirroring the conditional UPDATE of the SQL repository.
type mockEventRepository struct {
	mu            sync.Mutex
	events        map[int64]*models.Event
	registrations []models.Registration
	nextID        int64
	err           error
	registerErr   error
}

func newMockEventRepository(events ...*models.Event) *mockEventRepository {
	m := &mockEventRepository{events: map[int64]*models.Event{}, nextID: 100}
	for _, e := range events {
		clone := *e
		m.events[e.ID] = &clone
	}
	return m
}

func (m *mockEventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	events := []models.Event{}
	for _, e := range m.events {
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.Featured && !e.IsFeatured {
			continue
		}
		events = append(events, *e)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartDate.Before(events[j].StartDate) })
	return events, nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	clone := *e
	return &clone, nil
}

func (m *mockEventRepository) Create(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	event.ID = m.nextID
	event.CurrentAttendees = 0
	clone := *event
	m.events[event.ID] = &clone
	return nil
}

func (m *mockEventRepository) Update(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	existing, ok := m.events[event.ID]
	if !ok {
		return models.ErrEventNotFound
	}
	if event.MaxAttendees != nil && *event.MaxAttendees < existing.CurrentAttendees {
		return models.ErrCapacityBelowCount
	}
	clone := *event
	clone.CurrentAttendees = existing.CurrentAttendees
	m.events[event.ID] = &clone
	return nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.events[id]; !ok {
		return models.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

func (m *mockEventRepository) Register(ctx context.Context, reg *models.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registerErr != nil {
		return m.registerErr
	}
	e, ok := m.events[reg.EventID]
	if !ok {
		return models.ErrEventNotFound
	}
	if e.MaxAttendees != nil && e.CurrentAttendees >= *e.MaxAttendees {
		return models.ErrCapacityExceeded
	}
	e.CurrentAttendees++
	reg.ID = int64(len(m.registrations) + 1)
	reg.CreatedAt = fixedNow
	m.registrations = append(m.registrations, *reg)
	return nil
}

func (m *mockEventRepository) MarkPast(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	var updated int64
	for _, e := range m.events {
		if e.Status == models.EventStatusUpcoming && e.EndDate.Before(now) {
			e.Status = models.EventStatusPast
			updated++
		}
	}
	return updated, nil
}

func (m *mockEventRepository) CountUpcoming(ctx context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	count := 0
	for _, e := range m.events {
		if e.Status == models.EventStatusUpcoming && !e.StartDate.Before(now) {
			count++
		}
	}
	return count, nil
}

func (m *mockEventRepository) attendees(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id].CurrentAttendees
}

// mockRegistrationRepository reads registrations stored by mockEventRepository
type mockRegistrationRepository struct {
	events *mockEventRepository
	err    error
}

func (m *mockRegistrationRepository) GetDetails(ctx context.Context, id int64) (*models.RegistrationDetails, error) {
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	for _, reg := range m.events.registrations {
		if reg.ID == id {
			e := m.events.events[reg.EventID]
			return &models.RegistrationDetails{Registration: reg, EventTitle: e.Title, EventStart: e.StartDate, EventLocation: e.Location}, nil
		}
	}
	return nil, models.ErrRegistrationNotFound
}

func (m *mockRegistrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	result := []models.Registration{}
	for _, reg := range m.events.registrations {
		if reg.EventID == eventID {
			result = append(result, reg)
		}
	}
	return result, nil
}

func (m *mockRegistrationRepository) Count(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.events.mu.Lock()
	defer m.events.mu.Unlock()
	return len(m.events.registrations), nil
}

// mockArticleRepository is an in-memory implementation of ArticleRepository
type mockArticleRepository struct {
	mu       sync.Mutex
	articles    map[int64]*models.Article
	nextID      int64
	err         error
	slugLookups int
}

func newMockArticleRepository(articles ...*models.Article) *mockArticleRepository {
	m := &mockArticleRepository{articles: map[int64]*models.Article{}, nextID: 100}
	for _, a := range articles {
		clone := *a
		m.articles[a.ID] = &clone
	}
	return m
}

func (m *mockArticleRepository) sorted(match func(*models.Article) bool) []models.Article {
	result := []models.Article{}
	for _, a := range m.articles {
		if match(a) {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

func (m *mockArticleRepository) List(ctx context.Context, filter models.ArticleFilter) ([]models.Article, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}
	matches := m.sorted(func(a *models.Article) bool {
		if filter.PublishedOnly && !a.IsPublished {
			return false
		}
		if filter.Category != "" && a.Category != filter.Category {
			return false
		}
		if filter.Featured && !a.IsFeatured {
			return false
		}
		if filter.Search != "" {
			haystack := strings.ToLower(a.Title + " " + a.Excerpt + " " + a.Content + " " + strings.Join(a.Tags, " "))
			return strings.Contains(haystack, strings.ToLower(filter.Search))
		}
		return true
	})
	total := len(matches)
	if !filter.WithContent {
		for i := range matches {
			matches[i].Content = ""
		}
	}
	if filter.Limit > 0 {
		start := min((filter.Page-1)*filter.Limit, total)
		end := min(start+filter.Limit, total)
		matches = matches[start:end]
	}
	return matches, total, nil
}

func (m *mockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.articles[id]
	if !ok {
		return nil, models.ErrArticleNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *mockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slugLookups++
	if m.err != nil {
		return nil, m.err
	}
	for _, a := range m.articles {
		if a.Slug == slug {
			clone := *a
			return &clone, nil
		}
	}
	return nil, models.ErrArticleNotFound
}

func (m *mockArticleRepository) IncrementViews(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.articles[id]
	if !ok {
		return models.ErrArticleNotFound
	}
	a.ViewCount++
	return nil
}

func (m *mockArticleRepository) Related(ctx context.Context, category models.ArticleCategory, excludeID int64, limit int) ([]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	related := m.sorted(func(a *models.Article) bool {
		return a.IsPublished && a.Category == category && a.ID != excludeID
	})
	if len(related) > limit {
		related = related[:limit]
	}
	return related, nil
}

func (m *mockArticleRepository) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	counts := map[models.ArticleCategory]int{}
	for _, a := range m.articles {
		if a.IsPublished {
			counts[a.Category]++
		}
	}
	result := []models.CategoryCount{}
	for name, count := range counts {
		result = append(result, models.CategoryCount{Name: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result, nil
}

func (m *mockArticleRepository) ExistsBySlug(ctx context.Context, slug string, excludeID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for _, a := range m.articles {
		if a.Slug == slug && a.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockArticleRepository) Create(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	article.ID = m.nextID
	clone := *article
	m.articles[article.ID] = &clone
	return nil
}

func (m *mockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	existing, ok := m.articles[article.ID]
	if !ok {
		return models.ErrArticleNotFound
	}
	clone := *article
	clone.ViewCount = existing.ViewCount
	m.articles[article.ID] = &clone
	return nil
}

func (m *mockArticleRepository) TogglePublish(ctx context.Context, id int64, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	a, ok := m.articles[id]
	if !ok {
		return models.ErrArticleNotFound
	}
	a.IsPublished = !a.IsPublished
	if a.IsPublished && a.PublishedAt == nil {
		a.PublishedAt = &now
	}
	return nil
}

func (m *mockArticleRepository) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.articles[id]; !ok {
		return models.ErrArticleNotFound
	}
	delete(m.articles, id)
	return nil
}

func (m *mockArticleRepository) CountPublished(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	count := 0
	for _, a := range m.articles {
		if a.IsPublished {
			count++
		}
	}
	return count, nil
}

// mockNotifier records scheduled notifications
type mockNotifier struct {
	mu            sync.Mutex
	err           error
	welcomed      []int64
	registrations []int64
}

func (m *mockNotifier) NotifyWelcome(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomed = append(m.welcomed, userID)
	return m.err
}

func (m *mockNotifier) NotifyRegistration(ctx context.Context, registrationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations = append(m.registrations, registrationID)
	return m.err
}

// mockTokenIssuer returns predictable tokens
type mockTokenIssuer struct {
	err error
}

func (m *mockTokenIssuer) GenerateAccessToken(user *models.User) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return fmt.Sprintf("token-%d", user.ID), nil
}
