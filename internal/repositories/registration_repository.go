package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/assocosmetologie/backend/internal/models"
	"go.uber.org/zap"
)

// registrationRepository implements RegistrationRepository.
// Registrations are created by eventRepository.Register together with the seat claim.
type registrationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *sql.DB, logger *zap.Logger) *registrationRepository {
	return &registrationRepository{
		db:     db,
		logger: logger,
	}
}

// GetDetails retrieves a registration joined with its event
func (r *registrationRepository) GetDetails(ctx context.Context, id int64) (*models.RegistrationDetails, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.name, r.email, r.company, r.declared_member, r.member_pricing,
			r.price, r.notes, r.confirmation_code, r.created_at, e.title, e.start_date, e.location
		FROM registrations r
		INNER JOIN events e ON e.id = r.event_id
		WHERE r.id = ?
		LIMIT 1
	`

	var details models.RegistrationDetails
	var userID sql.NullInt64
	var notes sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&details.ID,
		&details.EventID,
		&userID,
		&details.Name,
		&details.Email,
		&details.Company,
		&details.DeclaredMember,
		&details.MemberPricing,
		&details.Price,
		&notes,
		&details.ConfirmationCode,
		&details.CreatedAt,
		&details.EventTitle,
		&details.EventStart,
		&details.EventLocation,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRegistrationNotFound
	}
	if err != nil {
		r.logger.Error("failed to get registration", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}

	if userID.Valid {
		uid := userID.Int64
		details.UserID = &uid
	}
	details.Notes = notes.String

	return &details, nil
}

// ListByEvent retrieves the registrations of one event in registration order
func (r *registrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Registration, error) {
	query := `
		SELECT id, event_id, user_id, name, email, company, declared_member, member_pricing,
			price, notes, confirmation_code, created_at
		FROM registrations
		WHERE event_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		r.logger.Error("failed to query registrations", zap.Error(err), zap.Int64("event_id", eventID))
		return nil, fmt.Errorf("failed to query registrations: %w", err)
	}
	defer rows.Close()

	registrations := []models.Registration{}
	for rows.Next() {
		var reg models.Registration
		var userID sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(
			&reg.ID, &reg.EventID, &userID, &reg.Name, &reg.Email, &reg.Company, &reg.DeclaredMember,
			&reg.MemberPricing, &reg.Price, &notes, &reg.ConfirmationCode, &reg.CreatedAt,
		); err != nil {
			r.logger.Error("failed to scan registration", zap.Error(err))
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		if userID.Valid {
			uid := userID.Int64
			reg.UserID = &uid
		}
		reg.Notes = notes.String
		registrations = append(registrations, reg)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return registrations, nil
}

// Count returns the total number of registrations
func (r *registrationRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM registrations`).Scan(&count); err != nil {
		r.logger.Error("failed to count registrations", zap.Error(err))
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}
