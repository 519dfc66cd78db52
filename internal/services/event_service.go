package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/assocosmetologie/backend/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventRepository is the interface that wraps methods for Event table data access
type EventRepository interface {
	// Method List retrieves events matching the filter ordered by start date.
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	// Method GetByID retrieves an event by ID.
	//
	// If event with such ID does not exist, models.ErrEventNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	// Method Create inserts a new event, its ID is set on success.
	Create(ctx context.Context, event *models.Event) error
	// Method Update overwrites the editable fields of an event.
	//
	// models.ErrCapacityBelowCount is returned when the new capacity is lower than the attendee count.
	Update(ctx context.Context, event *models.Event) error
	// Method Delete removes an event together with its registrations.
	Delete(ctx context.Context, id int64) error
	// Method Register atomically claims a seat and stores the registration.
	//
	// models.ErrCapacityExceeded is returned when no seat is left, models.ErrEventNotFound when the event is gone.
	Register(ctx context.Context, reg *models.Registration) error
	// Method MarkPast moves ended upcoming events to the past status.
	MarkPast(ctx context.Context, now time.Time) (int64, error)
	// Method CountUpcoming returns the number of upcoming events.
	CountUpcoming(ctx context.Context, now time.Time) (int, error)
}

// RegistrationRepository is the interface that wraps read methods for Registration table data access
type RegistrationRepository interface {
	// Method GetDetails retrieves a registration joined with its event.
	GetDetails(ctx context.Context, id int64) (*models.RegistrationDetails, error)
	// Method ListByEvent retrieves the registrations of one event.
	ListByEvent(ctx context.Context, eventID int64) ([]models.Registration, error)
	// Method Count returns the total number of registrations.
	Count(ctx context.Context) (int, error)
}

// MemberLookup resolves the authenticated caller of a request
type MemberLookup interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// eventService implements EventService
type eventService struct {
	eventRepo        EventRepository
	registrationRepo RegistrationRepository
	members          MemberLookup
	notifier         Notifier
	logger           *zap.Logger
	now              func() time.Time
	newCode          func() string
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo EventRepository,
	registrationRepo RegistrationRepository,
	members MemberLookup,
	notifier Notifier,
	logger *zap.Logger,
) *eventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		members:          members,
		notifier:         notifier,
		logger:           logger,
		now:              time.Now,
		newCode:          uuid.NewString,
	}
}

// List returns the events matching the filter
func (s *eventService) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	if filter.Type != "" && !filter.Type.IsValid() {
		verr := models.NewValidationError()
		verr.Add("type", "unknown event type")
		return nil, verr
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		verr := models.NewValidationError()
		verr.Add("status", "unknown event status")
		return nil, verr
	}
	return s.eventRepo.List(ctx, filter)
}

// Get returns one event
func (s *eventService) Get(ctx context.Context, id int64) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, id)
}

// Create validates and stores a new event
func (s *eventService) Create(ctx context.Context, req *models.EventRequest) (*models.Event, error) {
	if err := validateEventRequest(req); err != nil {
		return nil, err
	}

	event := &models.Event{}
	applyEventRequest(event, req)

	now := s.now()
	event.CreatedAt, event.UpdatedAt = now, now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Update validates and overwrites an event. The attendee counter is preserved.
func (s *eventService) Update(ctx context.Context, id int64, req *models.EventRequest) (*models.Event, error) {
	if err := validateEventRequest(req); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.MaxAttendees != nil && *req.MaxAttendees < event.CurrentAttendees {
		return nil, models.ErrCapacityBelowCount
	}

	applyEventRequest(event, req)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, err
	}
	event.UpdatedAt = s.now()

	return event, nil
}

// Delete removes an event permanently
func (s *eventService) Delete(ctx context.Context, id int64) error {
	return s.eventRepo.Delete(ctx, id)
}

// ListRegistrations returns the registrations of an existing event
func (s *eventService) ListRegistrations(ctx context.Context, eventID int64) ([]models.Registration, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.registrationRepo.ListByEvent(ctx, eventID)
}

// Register books one seat on an event for the attendee.
//
// callerID is the authenticated user, 0 for anonymous requests. The member price is
// granted only when that user currently holds an active membership; the attendee's own
// isMember answer is stored but never changes the price.
func (s *eventService) Register(ctx context.Context, eventID int64, req *models.EventRegistrationRequest, callerID int64) (*models.RegistrationConfirmation, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := validateAttendee(req); err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !event.IsOpenForRegistration(now) {
		return nil, models.ErrRegistrationClosed
	}
	// Capacity is re-checked atomically by the repository
	if event.IsFull() {
		return nil, models.ErrCapacityExceeded
	}

	activeMember, err := s.isActiveMember(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if event.IsMemberOnly && !activeMember {
		return nil, models.ErrMembershipRequired
	}

	price := event.Price
	if activeMember {
		price = event.MemberPrice
	}

	reg := &models.Registration{
		EventID:          event.ID,
		Name:             req.Name,
		Email:            req.Email,
		Company:          strings.TrimSpace(req.Company),
		DeclaredMember:   bool(req.IsMember),
		MemberPricing:    activeMember,
		Price:            price,
		Notes:            strings.TrimSpace(req.Notes),
		ConfirmationCode: s.newCode(),
	}
	if callerID != 0 {
		reg.UserID = &callerID
	}

	if err := s.eventRepo.Register(ctx, reg); err != nil {
		if errors.Is(err, models.ErrCapacityExceeded) {
			s.logger.Info("registration refused, event is full", zap.Int64("event_id", event.ID))
		}
		return nil, err
	}

	if err := s.notifier.NotifyRegistration(ctx, reg.ID); err != nil {
		s.logger.Warn("failed to schedule registration confirmation",
			zap.Int64("registration_id", reg.ID),
			zap.Error(err),
		)
	}

	return &models.RegistrationConfirmation{
		EventID:    event.ID,
		EventTitle: event.Title,
		Attendee: models.Attendee{
			Name:     reg.Name,
			Email:    reg.Email,
			Company:  reg.Company,
			IsMember: reg.DeclaredMember,
		},
		Price:            reg.Price,
		MemberPricing:    reg.MemberPricing,
		ConfirmationCode: reg.ConfirmationCode,
		RegistrationDate: reg.CreatedAt,
	}, nil
}

// MarkPastEvents closes every upcoming event that has already ended
func (s *eventService) MarkPastEvents(ctx context.Context) (int64, error) {
	return s.eventRepo.MarkPast(ctx, s.now())
}

// isActiveMember looks up the caller's current membership; anonymous callers are never members
func (s *eventService) isActiveMember(ctx context.Context, callerID int64) (bool, error) {
	if callerID == 0 {
		return false, nil
	}

	user, err := s.members.GetByID(ctx, callerID)
	if errors.Is(err, models.ErrNotFound) {
		// The token outlived its account
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return user.IsActiveMember(), nil
}

// applyEventRequest copies a validated request onto an event.
// An empty status keeps the current one, new events default to upcoming.
func applyEventRequest(event *models.Event, req *models.EventRequest) {
	event.Title = strings.TrimSpace(req.Title)
	event.Description = strings.TrimSpace(req.Description)
	event.Type = req.Type
	event.StartDate = *req.StartDate
	event.EndDate = *req.EndDate
	event.Location = strings.TrimSpace(req.Location)
	event.IsOnline = req.IsOnline
	event.IsMemberOnly = req.IsMemberOnly
	event.MaxAttendees = req.MaxAttendees
	event.RegistrationRequired = req.RegistrationRequired
	event.RegistrationDeadline = req.RegistrationDeadline
	event.Price = req.Price
	event.MemberPrice = req.MemberPrice
	event.Image = strings.TrimSpace(req.Image)
	event.Program = trimList(req.Program)
	event.Tags = normalizeTags(req.Tags)
	event.IsFeatured = req.IsFeatured

	if req.Status != "" {
		event.Status = req.Status
	}
	if event.Status == "" {
		event.Status = models.EventStatusUpcoming
	}
	event.Organizer = strings.TrimSpace(req.Organizer)
	if event.Organizer == "" {
		event.Organizer = models.DefaultOrganizer
	}
}
