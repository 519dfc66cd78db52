package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/assocosmetologie/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockMembers struct {
	existing  []models.User
	createErr error
	created   []*models.MemberRequest
}

func (m *mockMembers) List(ctx context.Context, filter models.UserListFilter) ([]models.User, error) {
	return m.existing, nil
}

func (m *mockMembers) Create(ctx context.Context, req *models.MemberRequest) (*models.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.created = append(m.created, req)
	return &models.User{ID: 1, Email: req.Email, Role: req.Role}, nil
}

type mockEvents struct {
	existing []models.Event
	err      error
	created  []*models.EventRequest
}

func (m *mockEvents) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	return m.existing, nil
}

func (m *mockEvents) Create(ctx context.Context, req *models.EventRequest) (*models.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = append(m.created, req)
	return &models.Event{ID: int64(len(m.created))}, nil
}

type mockArticles struct {
	existing  []models.Article
	created   []*models.ArticleRequest
	authorIDs []int64
}

func (m *mockArticles) ListAll(ctx context.Context) ([]models.Article, error) {
	return m.existing, nil
}

func (m *mockArticles) Create(ctx context.Context, authorID int64, req *models.ArticleRequest) (*models.Article, error) {
	m.created = append(m.created, req)
	m.authorIDs = append(m.authorIDs, authorID)
	return &models.Article{ID: int64(len(m.created))}, nil
}

func newTestSeeder(members *mockMembers, events *mockEvents, articles *mockArticles) *Seeder {
	s := NewSeeder(members, events, articles, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC) }
	return s
}

func TestSeeder_Run_EmptyDatabase(t *testing.T) {
	members, events, articles := &mockMembers{}, &mockEvents{}, &mockArticles{}

	err := newTestSeeder(members, events, articles).Run(context.Background(), "admin@example.com", "secret1")

	require.NoError(t, err)
	require.Len(t, members.created, 1)
	assert.Equal(t, models.RoleAdmin, members.created[0].Role)
	assert.Equal(t, models.MembershipActive, members.created[0].MembershipStatus)

	require.Len(t, events.created, 3)
	for _, req := range events.created {
		assert.True(t, req.StartDate.After(time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)), req.Title)
		assert.False(t, req.EndDate.Before(*req.StartDate), req.Title)
	}

	require.Len(t, articles.created, 3)
	assert.Equal(t, []int64{1, 1, 1}, articles.authorIDs)
}

func TestSeeder_Run_ExistingData(t *testing.T) {
	members := &mockMembers{
		createErr: models.ErrEmailTaken,
		existing:  []models.User{{ID: 7, Email: "admin@example.com", Role: models.RoleAdmin}},
	}
	events := &mockEvents{existing: []models.Event{{ID: 1}}}
	articles := &mockArticles{}

	err := newTestSeeder(members, events, articles).Run(context.Background(), "admin@example.com", "secret1")

	require.NoError(t, err)
	assert.Empty(t, events.created)
	require.Len(t, articles.created, 3)
	assert.Equal(t, int64(7), articles.authorIDs[0])
}

func TestSeeder_Run_Errors(t *testing.T) {
	tests := []struct {
		name    string
		members *mockMembers
		events  *mockEvents
	}{
		{name: "admin creation fails", members: &mockMembers{createErr: errors.New("connection refused")}, events: &mockEvents{}},
		{name: "event creation fails", members: &mockMembers{}, events: &mockEvents{err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			articles := &mockArticles{}

			err := newTestSeeder(tt.members, tt.events, articles).Run(context.Background(), "admin@example.com", "secret1")

			assert.Error(t, err)
			assert.Empty(t, articles.created)
		})
	}
}
