package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/assocosmetologie/backend/internal/config"
	"github.com/assocosmetologie/backend/internal/handlers"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/assocosmetologie/backend/internal/repositories"
	"github.com/assocosmetologie/backend/internal/services"
	"github.com/go-chi/chi/v5"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	testDB     *sql.DB
	testLogger *zap.Logger
)

// nopNotifier drops confirmation e-mails
type nopNotifier struct{}

func (nopNotifier) NotifyWelcome(ctx context.Context, userID int64) error { return nil }

func (nopNotifier) NotifyRegistration(ctx context.Context, registrationID int64) error { return nil }

// TestMain connects to the test database and applies the migrations.
// Without TEST_DB_HOST every test is skipped.
func TestMain(m *testing.M) {
	var err error
	testLogger, err = zap.NewDevelopment()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	cfg, err := config.LoadTestConfig()
	if err != nil {
		panic(fmt.Sprintf("Failed to load test config: %v", err))
	}

	if dsn := cfg.DSN(); dsn != "" {
		testDB, err = sql.Open("mysql", dsn)
		if err != nil {
			panic(fmt.Sprintf("Failed to connect to test database: %v", err))
		}
		if err = testDB.Ping(); err != nil {
			panic(fmt.Sprintf("Failed to ping test database: %v", err))
		}
		if err = migrateUp(testDB); err != nil {
			panic(err.Error())
		}
	}

	code := m.Run()

	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func migrateUp(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://../../migrations", "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

func requireDatabase(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	if testDB == nil {
		t.Skip("TEST_DB_HOST is not set")
	}
}

// cleanupTestData removes all rows, registrations first
func cleanupTestData(t *testing.T) {
	t.Helper()
	for _, table := range []string{"registrations", "events", "articles", "users"} {
		_, err := testDB.Exec("DELETE FROM " + table)
		require.NoError(t, err, "Failed to cleanup "+table)
	}
}

// eventService is the part of the event service exercised here
type eventService interface {
	Create(ctx context.Context, req *models.EventRequest) (*models.Event, error)
	Update(ctx context.Context, id int64, req *models.EventRequest) (*models.Event, error)
	handlers.EventService
}

func newEventService() eventService {
	return services.NewEventService(
		repositories.NewEventRepository(testDB, testLogger),
		repositories.NewRegistrationRepository(testDB, testLogger),
		repositories.NewUserRepository(testDB, testLogger),
		nopNotifier{},
		testLogger,
	)
}

func createEvent(t *testing.T, svc eventService, maxAttendees int) *models.Event {
	t.Helper()
	start := time.Now().Add(30 * 24 * time.Hour).Truncate(time.Second)
	end := start.Add(6 * time.Hour)
	event, err := svc.Create(context.Background(), &models.EventRequest{
		Title:                "Atelier formulation",
		Description:          "Formuler une émulsion stable",
		Type:                 models.EventTypeWorkshop,
		StartDate:            &start,
		EndDate:              &end,
		Location:             "Lyon",
		MaxAttendees:         &maxAttendees,
		RegistrationRequired: true,
		Price:                120,
		MemberPrice:          80,
	})
	require.NoError(t, err)
	return event
}

func TestIntegration_ConcurrentRegistrationsLastSeat(t *testing.T) {
	requireDatabase(t)
	cleanupTestData(t)
	defer cleanupTestData(t)

	svc := newEventService()
	event := createEvent(t, svc, 1)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		handlers.NewEventHandler(svc, testLogger).RegisterRoutes(r)
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	const attempts = 2
	statuses := make([]int, attempts)
	start := make(chan struct{})
	var wg sync.WaitGroup

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body, _ := json.Marshal(map[string]string{
				"name":     fmt.Sprintf("Participant %d", i),
				"email":    fmt.Sprintf("participant%d@example.com", i),
				"isMember": "no",
			})
			<-start
			resp, err := http.Post(fmt.Sprintf("%s/api/v1/events/%d/register", srv.URL, event.ID), "application/json", bytes.NewReader(body))
			if err != nil {
				t.Errorf("request %d failed: %v", i, err)
				return
			}
			defer resp.Body.Close()
			statuses[i] = resp.StatusCode
		}(i)
	}
	close(start)
	wg.Wait()

	assert.ElementsMatch(t, []int{http.StatusCreated, http.StatusConflict}, statuses)

	var current int
	require.NoError(t, testDB.QueryRow("SELECT current_attendees FROM events WHERE id = ?", event.ID).Scan(&current))
	assert.Equal(t, 1, current)

	var registrations int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM registrations WHERE event_id = ?", event.ID).Scan(&registrations))
	assert.Equal(t, 1, registrations)
}

func TestIntegration_RegistrationsNeverExceedCapacity(t *testing.T) {
	requireDatabase(t)
	cleanupTestData(t)
	defer cleanupTestData(t)

	svc := newEventService()
	const capacity = 5
	event := createEvent(t, svc, capacity)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		full      int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.Register(context.Background(), event.ID, &models.EventRegistrationRequest{
				Name:  fmt.Sprintf("Participant %d", i),
				Email: fmt.Sprintf("participant%d@example.com", i),
			}, 0)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, models.ErrCapacityExceeded):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, capacity, succeeded)
	assert.Equal(t, attempts-capacity, full)

	stored, err := svc.Get(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, capacity, stored.CurrentAttendees)
}

func TestIntegration_CapacityCannotDropBelowCount(t *testing.T) {
	requireDatabase(t)
	cleanupTestData(t)
	defer cleanupTestData(t)

	svc := newEventService()
	event := createEvent(t, svc, 3)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := svc.Register(ctx, event.ID, &models.EventRegistrationRequest{
			Name:  "Participant",
			Email: fmt.Sprintf("p%d@example.com", i),
		}, 0)
		require.NoError(t, err)
	}

	lower := 1
	_, err := svc.Update(ctx, event.ID, &models.EventRequest{
		Title:        event.Title,
		Description:  event.Description,
		Type:         event.Type,
		StartDate:    &event.StartDate,
		EndDate:      &event.EndDate,
		Location:     event.Location,
		MaxAttendees: &lower,
	})

	assert.ErrorIs(t, err, models.ErrCapacityBelowCount)
}

func TestIntegration_DeletedMemberIsGone(t *testing.T) {
	requireDatabase(t)
	cleanupTestData(t)
	defer cleanupTestData(t)

	svc := services.NewMemberService(repositories.NewUserRepository(testDB, testLogger), testLogger)
	ctx := context.Background()

	member, err := svc.Create(ctx, &models.MemberRequest{
		Email:     "claire@example.com",
		Password:  "secret1",
		FirstName: "Claire",
		LastName:  "Martin",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, member.ID, member.ID+1))

	_, err = svc.Get(ctx, member.ID)
	assert.ErrorIs(t, err, models.ErrUserNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, member.ID, member.ID+1), models.ErrUserNotFound)
}
