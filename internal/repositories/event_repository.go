package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assocosmetologie/backend/internal/models"
	"go.uber.org/zap"
)

const eventColumns = `
	id, title, description, type, start_date, end_date, location, is_online, is_member_only,
	max_attendees, current_attendees, registration_required, registration_deadline, price, member_price,
	image, status, program, organizer, tags, is_featured, created_at, updated_at`

// eventRepository implements EventRepository
type eventRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB, logger *zap.Logger) *eventRepository {
	return &eventRepository{
		db:     db,
		logger: logger,
	}
}

// scanEvent reads one row selected with eventColumns
func scanEvent(row rowScanner) (*models.Event, error) {
	var event models.Event
	var maxAttendees sql.NullInt64
	var deadline sql.NullTime
	var program, tags []byte

	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Type,
		&event.StartDate,
		&event.EndDate,
		&event.Location,
		&event.IsOnline,
		&event.IsMemberOnly,
		&maxAttendees,
		&event.CurrentAttendees,
		&event.RegistrationRequired,
		&deadline,
		&event.Price,
		&event.MemberPrice,
		&event.Image,
		&event.Status,
		&program,
		&event.Organizer,
		&tags,
		&event.IsFeatured,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if maxAttendees.Valid {
		limit := int(maxAttendees.Int64)
		event.MaxAttendees = &limit
	}
	if deadline.Valid {
		t := deadline.Time
		event.RegistrationDeadline = &t
	}
	if event.Program, err = decodeList(program); err != nil {
		return nil, err
	}
	if event.Tags, err = decodeList(tags); err != nil {
		return nil, err
	}

	return &event, nil
}

// List retrieves events matching the filter ordered by start date
func (r *eventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var whereClauses []string
	var args []any

	if filter.Type != "" {
		whereClauses = append(whereClauses, "type = ?")
		args = append(args, filter.Type)
	}
	if filter.Status != "" {
		whereClauses = append(whereClauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.Featured {
		whereClauses = append(whereClauses, "is_featured = TRUE")
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := `SELECT` + eventColumns + `
		FROM events
		` + whereClause + `
		ORDER BY start_date ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query events", zap.Error(err))
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			r.logger.Error("failed to scan event", zap.Error(err))
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// GetByID retrieves an event by ID
func (r *eventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	query := `SELECT` + eventColumns + `
		FROM events
		WHERE id = ?
		LIMIT 1
	`

	event, err := scanEvent(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrEventNotFound
	}
	if err != nil {
		r.logger.Error("failed to get event by id", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get event by id: %w", err)
	}

	return event, nil
}

// Create inserts a new event and sets its ID. The attendee counter always starts at zero.
func (r *eventRepository) Create(ctx context.Context, event *models.Event) error {
	program, err := encodeList(event.Program)
	if err != nil {
		return err
	}
	tags, err := encodeList(event.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO events (
			title, description, type, start_date, end_date, location, is_online, is_member_only,
			max_attendees, current_attendees, registration_required, registration_deadline, price, member_price,
			image, status, program, organizer, tags, is_featured
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Title, event.Description, event.Type, event.StartDate, event.EndDate, event.Location, event.IsOnline, event.IsMemberOnly,
		nullableInt(event.MaxAttendees), event.RegistrationRequired, nullableTime(event.RegistrationDeadline), event.Price, event.MemberPrice,
		event.Image, event.Status, program, event.Organizer, tags, event.IsFeatured,
	)
	if err != nil {
		r.logger.Error("failed to create event", zap.Error(err))
		return fmt.Errorf("failed to create event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	event.ID = id
	event.CurrentAttendees = 0
	return nil
}

// Update overwrites the editable fields of an event.
// The attendee counter is never written here, and the update is refused with
// ErrCapacityBelowCount when the new capacity is lower than the current attendee count.
func (r *eventRepository) Update(ctx context.Context, event *models.Event) error {
	program, err := encodeList(event.Program)
	if err != nil {
		return err
	}
	tags, err := encodeList(event.Tags)
	if err != nil {
		return err
	}

	maxAttendees := nullableInt(event.MaxAttendees)
	query := `
		UPDATE events
		SET title = ?, description = ?, type = ?, start_date = ?, end_date = ?, location = ?, is_online = ?,
			is_member_only = ?, max_attendees = ?, registration_required = ?, registration_deadline = ?,
			price = ?, member_price = ?, image = ?, status = ?, program = ?, organizer = ?, tags = ?, is_featured = ?
		WHERE id = ? AND (? IS NULL OR current_attendees <= ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		event.Title, event.Description, event.Type, event.StartDate, event.EndDate, event.Location, event.IsOnline,
		event.IsMemberOnly, maxAttendees, event.RegistrationRequired, nullableTime(event.RegistrationDeadline),
		event.Price, event.MemberPrice, event.Image, event.Status, program, event.Organizer, tags, event.IsFeatured,
		event.ID, maxAttendees, maxAttendees,
	)
	if err != nil {
		r.logger.Error("failed to update event", zap.Error(err), zap.Int64("id", event.ID))
		return fmt.Errorf("failed to update event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("failed to get rows affected", zap.Error(err))
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected > 0 {
		return nil
	}

	exists, err := r.exists(ctx, r.db, event.ID)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrEventNotFound
	}
	return models.ErrCapacityBelowCount
}

// Delete removes an event and, through the foreign key, its registrations
func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete event", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete event: %w", err)
	}

	return checkAffected(result, models.ErrEventNotFound)
}

// Register claims one seat and stores the registration in a single transaction.
// The seat is claimed with a conditional increment, so concurrent callers can never
// push current_attendees past max_attendees. On success reg.ID and reg.CreatedAt are set.
func (r *eventRepository) Register(ctx context.Context, reg *models.Registration) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	claim := `
		UPDATE events
		SET current_attendees = current_attendees + 1
		WHERE id = ? AND (max_attendees IS NULL OR current_attendees < max_attendees)
	`
	result, err := tx.ExecContext(ctx, claim, reg.EventID)
	if err != nil {
		r.logger.Error("failed to claim seat", zap.Error(err), zap.Int64("event_id", reg.EventID))
		return fmt.Errorf("failed to claim seat: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("failed to get rows affected", zap.Error(err))
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		exists, err := r.exists(ctx, tx, reg.EventID)
		if err != nil {
			return err
		}
		if !exists {
			return models.ErrEventNotFound
		}
		return models.ErrCapacityExceeded
	}

	insert := `
		INSERT INTO registrations (
			event_id, user_id, name, email, company, declared_member, member_pricing, price, notes, confirmation_code, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	reg.CreatedAt = time.Now().UTC()
	result, err = tx.ExecContext(ctx, insert,
		reg.EventID, nullableInt64(reg.UserID), reg.Name, reg.Email, reg.Company, reg.DeclaredMember,
		reg.MemberPricing, reg.Price, reg.Notes, reg.ConfirmationCode, reg.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create registration", zap.Error(err), zap.Int64("event_id", reg.EventID))
		return fmt.Errorf("failed to create registration: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	reg.ID = id
	return nil
}

// MarkPast moves upcoming events that ended before now to the past status
// and returns how many events were updated
func (r *eventRepository) MarkPast(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE events SET status = ? WHERE status = ? AND end_date < ?`

	result, err := r.db.ExecContext(ctx, query, models.EventStatusPast, models.EventStatusUpcoming, now)
	if err != nil {
		r.logger.Error("failed to mark past events", zap.Error(err))
		return 0, fmt.Errorf("failed to mark past events: %w", err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("failed to get rows affected", zap.Error(err))
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return updated, nil
}

// CountUpcoming returns the number of upcoming events starting after now
func (r *eventRepository) CountUpcoming(ctx context.Context, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM events WHERE status = ? AND start_date >= ?`

	var count int
	if err := r.db.QueryRowContext(ctx, query, models.EventStatusUpcoming, now).Scan(&count); err != nil {
		r.logger.Error("failed to count upcoming events", zap.Error(err))
		return 0, fmt.Errorf("failed to count upcoming events: %w", err)
	}

	return count, nil
}

// queryRower is satisfied by *sql.DB and *sql.Tx
type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// exists checks whether an event with the given ID exists
func (r *eventRepository) exists(ctx context.Context, q queryRower, id int64) (bool, error) {
	var exists bool
	if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM events WHERE id = ?)`, id).Scan(&exists); err != nil {
		r.logger.Error("failed to check event existence", zap.Error(err), zap.Int64("id", id))
		return false, fmt.Errorf("failed to check event existence: %w", err)
	}
	return exists, nil
}
