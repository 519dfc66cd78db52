// Package seed fills empty tables with demo content when DEMO_MODE is enabled
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/assocosmetologie/backend/internal/models"
	"go.uber.org/zap"
)

// MemberService is the subset of the member service used to create the demo administrator
type MemberService interface {
	List(ctx context.Context, filter models.UserListFilter) ([]models.User, error)
	Create(ctx context.Context, req *models.MemberRequest) (*models.User, error)
}

// EventService is the subset of the event service used to create demo events
type EventService interface {
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	Create(ctx context.Context, req *models.EventRequest) (*models.Event, error)
}

// ArticleService is the subset of the article service used to create demo articles
type ArticleService interface {
	ListAll(ctx context.Context) ([]models.Article, error)
	Create(ctx context.Context, authorID int64, req *models.ArticleRequest) (*models.Article, error)
}

// Seeder creates demo data through the services so every record passes the usual validation
type Seeder struct {
	members  MemberService
	events   EventService
	articles ArticleService
	logger   *zap.Logger
	now      func() time.Time
}

// NewSeeder creates a new seeder
func NewSeeder(members MemberService, events EventService, articles ArticleService, logger *zap.Logger) *Seeder {
	return &Seeder{
		members:  members,
		events:   events,
		articles: articles,
		logger:   logger,
		now:      time.Now,
	}
}

// Run seeds the administrator account, then events and articles when their tables are empty.
// It is safe to call on every start.
func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string) error {
	adminID, err := s.seedAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}
	if err := s.seedEvents(ctx); err != nil {
		return fmt.Errorf("seeding events: %w", err)
	}
	if err := s.seedArticles(ctx, adminID); err != nil {
		return fmt.Errorf("seeding articles: %w", err)
	}
	return nil
}

func (s *Seeder) seedAdmin(ctx context.Context, email, password string) (int64, error) {
	admin, err := s.members.Create(ctx, &models.MemberRequest{
		Email:            email,
		Password:         password,
		FirstName:        "Admin",
		LastName:         "Association",
		Role:             models.RoleAdmin,
		MembershipPlan:   models.PlanIndividual,
		MembershipStatus: models.MembershipActive,
		IsVerified:       true,
	})
	if err == nil {
		s.logger.Info("demo admin created", zap.Int64("user_id", admin.ID))
		return admin.ID, nil
	}
	if !errors.Is(err, models.ErrEmailTaken) {
		return 0, err
	}

	existing, err := s.members.List(ctx, models.UserListFilter{Role: models.RoleAdmin, Search: email})
	if err != nil {
		return 0, err
	}
	for _, u := range existing {
		if u.Email == email {
			return u.ID, nil
		}
	}
	// the address belongs to a non-admin account, publish without author link
	return 0, nil
}

func (s *Seeder) seedEvents(ctx context.Context) error {
	existing, err := s.events.List(ctx, models.EventFilter{})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Info("events already present, skipping demo events")
		return nil
	}

	for _, req := range demoEvents(s.now()) {
		if _, err := s.events.Create(ctx, req); err != nil {
			return fmt.Errorf("creating %q: %w", req.Title, err)
		}
	}
	s.logger.Info("demo events created")
	return nil
}

func (s *Seeder) seedArticles(ctx context.Context, authorID int64) error {
	existing, err := s.articles.ListAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		s.logger.Info("articles already present, skipping demo articles")
		return nil
	}

	for _, req := range demoArticles() {
		if _, err := s.articles.Create(ctx, authorID, req); err != nil {
			return fmt.Errorf("creating %q: %w", req.Title, err)
		}
	}
	s.logger.Info("demo articles created")
	return nil
}

func demoEvents(now time.Time) []*models.EventRequest {
	day := func(offset int, hour int) *time.Time {
		d := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location()).AddDate(0, 0, offset)
		return &d
	}
	capacity := func(n int) *int { return &n }

	return []*models.EventRequest{
		{
			Title:                "Congrès annuel de cosmétologie",
			Description:          "Deux jours de conférences sur la recherche en dermocosmétique, les nouvelles réglementations et l'innovation en formulation.",
			Type:                 models.EventTypeCongress,
			StartDate:            day(45, 9),
			EndDate:              day(46, 18),
			Location:             "Palais des Congrès, Paris",
			MaxAttendees:         capacity(300),
			RegistrationRequired: true,
			RegistrationDeadline: day(40, 23),
			Price:                250,
			MemberPrice:          150,
			Program:              []string{"Accueil des participants", "Conférences plénières", "Tables rondes", "Cocktail de clôture"},
			Tags:                 []string{"recherche", "réglementation", "innovation"},
			IsFeatured:           true,
		},
		{
			Title:                "Atelier formulation naturelle",
			Description:          "Atelier pratique de formulation de soins à partir d'ingrédients d'origine naturelle.",
			Type:                 models.EventTypeWorkshop,
			StartDate:            day(20, 14),
			EndDate:              day(20, 17),
			Location:             "Laboratoire de l'association, Lyon",
			IsMemberOnly:         true,
			MaxAttendees:         capacity(12),
			RegistrationRequired: true,
			Price:                80,
			MemberPrice:          40,
			Tags:                 []string{"formulation", "naturel"},
		},
		{
			Title:                "Webinaire : actualités réglementaires",
			Description:          "Point d'étape sur les évolutions du règlement cosmétique européen.",
			Type:                 models.EventTypeTraining,
			StartDate:            day(7, 18),
			EndDate:              day(7, 19),
			Location:             "En ligne",
			IsOnline:             true,
			RegistrationRequired: true,
			Tags:                 []string{"réglementation"},
		},
	}
}

func demoArticles() []*models.ArticleRequest {
	return []*models.ArticleRequest{
		{
			Title:       "Les rétinoïdes expliqués",
			Excerpt:     "Rétinol, rétinal, acide rétinoïque : comment s'y retrouver et les utiliser sans irriter la peau.",
			Content:     "## Une famille de molécules\n\nLes rétinoïdes sont des dérivés de la vitamine A...\n\n## Bien les introduire\n\nCommencer par une faible concentration, deux soirs par semaine.",
			Category:    models.CategoryCare,
			Tags:        []string{"rétinol", "anti-âge", "actifs"},
			IsFeatured:  true,
			IsPublished: true,
		},
		{
			Title:       "Tendances maquillage de la saison",
			Excerpt:     "Teints lumineux, couleurs franches et textures hybrides : tour d'horizon des tendances.",
			Content:     "Les textures hybrides entre soin et maquillage continuent de s'imposer...",
			Category:    models.CategoryTrends,
			Tags:        []string{"maquillage", "tendances"},
			IsPublished: true,
		},
		{
			Title:        "Dossier adhérents : la stabilité des émulsions",
			Excerpt:      "Méthodes de test et critères de stabilité utilisés en laboratoire.",
			Content:      "Ce dossier détaille les tests de centrifugation, de cycles thermiques et d'observation microscopique...",
			Category:     models.CategoryInnovation,
			Tags:         []string{"formulation", "laboratoire"},
			IsMemberOnly: true,
			IsPublished:  true,
		},
	}
}
