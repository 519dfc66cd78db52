package handlers

import (
	"context"

	"github.com/assocosmetologie/backend/internal/models"
)

// mockAuthService records the last request and returns the configured values
type mockAuthService struct {
	resp         *models.AuthResponse
	err          error
	lastRegister *models.RegisterRequest
	lastLogin    *models.LoginRequest
}

func (m *mockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	m.lastRegister = req
	return m.resp, m.err
}

func (m *mockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	m.lastLogin = req
	return m.resp, m.err
}

type mockProfileService struct {
	user       *models.User
	err        error
	lastUserID int64
	lastUpdate *models.UpdateProfileRequest
	lastChange *models.ChangePasswordRequest
}

func (m *mockProfileService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	m.lastUserID = userID
	return m.user, m.err
}

func (m *mockProfileService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.User, error) {
	m.lastUserID = userID
	m.lastUpdate = req
	return m.user, m.err
}

func (m *mockProfileService) ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error {
	m.lastUserID = userID
	m.lastChange = req
	return m.err
}

type mockEventService struct {
	events        []models.Event
	event         *models.Event
	confirmation  *models.RegistrationConfirmation
	registrations []models.Registration
	err           error

	lastFilter   models.EventFilter
	lastID       int64
	lastCallerID int64
	lastAttendee *models.EventRegistrationRequest
	lastRequest  *models.EventRequest
}

func (m *mockEventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	m.lastFilter = filter
	return m.events, m.err
}

func (m *mockEventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	m.lastID = id
	return m.event, m.err
}

func (m *mockEventService) Register(ctx context.Context, eventID int64, req *models.EventRegistrationRequest, callerID int64) (*models.RegistrationConfirmation, error) {
	m.lastID = eventID
	m.lastAttendee = req
	m.lastCallerID = callerID
	return m.confirmation, m.err
}

func (m *mockEventService) Create(ctx context.Context, req *models.EventRequest) (*models.Event, error) {
	m.lastRequest = req
	return m.event, m.err
}

func (m *mockEventService) Update(ctx context.Context, id int64, req *models.EventRequest) (*models.Event, error) {
	m.lastID = id
	m.lastRequest = req
	return m.event, m.err
}

func (m *mockEventService) Delete(ctx context.Context, id int64) error {
	m.lastID = id
	return m.err
}

func (m *mockEventService) ListRegistrations(ctx context.Context, eventID int64) ([]models.Registration, error) {
	m.lastID = eventID
	return m.registrations, m.err
}

type mockArticleService struct {
	list       *models.ArticleList
	detail     *models.ArticleDetail
	categories []models.CategoryCount
	articles   []models.Article
	article    *models.Article
	err        error

	lastFilter   models.ArticleFilter
	lastSlug     string
	lastCallerID int64
	lastID       int64
	lastRequest  *models.ArticleRequest
}

func (m *mockArticleService) ListPublished(ctx context.Context, filter models.ArticleFilter) (*models.ArticleList, error) {
	m.lastFilter = filter
	return m.list, m.err
}

func (m *mockArticleService) GetPublished(ctx context.Context, slug string, callerID int64) (*models.ArticleDetail, error) {
	m.lastSlug = slug
	m.lastCallerID = callerID
	return m.detail, m.err
}

func (m *mockArticleService) Categories(ctx context.Context) ([]models.CategoryCount, error) {
	return m.categories, m.err
}

func (m *mockArticleService) ListAll(ctx context.Context) ([]models.Article, error) {
	return m.articles, m.err
}

func (m *mockArticleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	m.lastID = id
	return m.article, m.err
}

func (m *mockArticleService) Create(ctx context.Context, authorID int64, req *models.ArticleRequest) (*models.Article, error) {
	m.lastCallerID = authorID
	m.lastRequest = req
	return m.article, m.err
}

func (m *mockArticleService) Update(ctx context.Context, id int64, req *models.ArticleRequest) (*models.Article, error) {
	m.lastID = id
	m.lastRequest = req
	return m.article, m.err
}

func (m *mockArticleService) TogglePublish(ctx context.Context, id int64) (*models.Article, error) {
	m.lastID = id
	return m.article, m.err
}

func (m *mockArticleService) Delete(ctx context.Context, id int64) error {
	m.lastID = id
	return m.err
}

type mockMemberService struct {
	users []models.User
	user  *models.User
	err   error

	lastFilter   models.UserListFilter
	lastID       int64
	lastActorID  int64
	lastRequest  *models.MemberRequest
	lastPassword *models.SetPasswordRequest
}

func (m *mockMemberService) List(ctx context.Context, filter models.UserListFilter) ([]models.User, error) {
	m.lastFilter = filter
	return m.users, m.err
}

func (m *mockMemberService) Get(ctx context.Context, id int64) (*models.User, error) {
	m.lastID = id
	return m.user, m.err
}

func (m *mockMemberService) Create(ctx context.Context, req *models.MemberRequest) (*models.User, error) {
	m.lastRequest = req
	return m.user, m.err
}

func (m *mockMemberService) Update(ctx context.Context, id int64, req *models.MemberRequest) (*models.User, error) {
	m.lastID = id
	m.lastRequest = req
	return m.user, m.err
}

func (m *mockMemberService) ToggleStatus(ctx context.Context, id, actorID int64) (*models.User, error) {
	m.lastID = id
	m.lastActorID = actorID
	return m.user, m.err
}

func (m *mockMemberService) SetPassword(ctx context.Context, id int64, req *models.SetPasswordRequest) error {
	m.lastID = id
	m.lastPassword = req
	return m.err
}

func (m *mockMemberService) Delete(ctx context.Context, id, actorID int64) error {
	m.lastID = id
	m.lastActorID = actorID
	return m.err
}

type mockStatsService struct {
	stats *models.AdminStats
	err   error
}

func (m *mockStatsService) Overview(ctx context.Context) (*models.AdminStats, error) {
	return m.stats, m.err
}
