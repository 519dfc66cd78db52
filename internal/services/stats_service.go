package services

import (
	"context"
	"time"

	"github.com/assocosmetologie/backend/internal/models"
)

// MemberCounter counts members per membership status
type MemberCounter interface {
	CountByMembershipStatus(ctx context.Context) (map[models.MembershipStatus]int, error)
}

// UpcomingCounter counts upcoming events
type UpcomingCounter interface {
	CountUpcoming(ctx context.Context, now time.Time) (int, error)
}

// PublishedCounter counts published articles
type PublishedCounter interface {
	CountPublished(ctx context.Context) (int, error)
}

// RegistrationCounter counts event registrations
type RegistrationCounter interface {
	Count(ctx context.Context) (int, error)
}

// statsService implements StatsService
type statsService struct {
	members       MemberCounter
	events        UpcomingCounter
	articles      PublishedCounter
	registrations RegistrationCounter
	now           func() time.Time
}

// NewStatsService creates a new stats service
func NewStatsService(members MemberCounter, events UpcomingCounter, articles PublishedCounter, registrations RegistrationCounter) *statsService {
	return &statsService{
		members:       members,
		events:        events,
		articles:      articles,
		registrations: registrations,
		now:           time.Now,
	}
}

// Overview gathers the back-office overview counters
func (s *statsService) Overview(ctx context.Context) (*models.AdminStats, error) {
	byStatus, err := s.members.CountByMembershipStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.AdminStats{MembersByStatus: make(map[models.MembershipStatus]int, len(byStatus))}
	for status, count := range byStatus {
		stats.MembersByStatus[status] = count
		stats.TotalMembers += count
	}

	if stats.UpcomingEvents, err = s.events.CountUpcoming(ctx, s.now()); err != nil {
		return nil, err
	}
	if stats.PublishedArticles, err = s.articles.CountPublished(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRegistrations, err = s.registrations.Count(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
