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

const userColumns = `
	id, email, password_hash, role, first_name, last_name, phone, company, profession,
	professional_status, domains_of_interest, address, postal_code, city, country,
	membership_plan, membership_status, is_active, is_verified, last_login_at, created_at, updated_at`

// userRepository implements UserRepository
type userRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB, logger *zap.Logger) *userRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// scanUser reads one row selected with userColumns
func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	var domains []byte
	var lastLogin sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.FirstName,
		&user.LastName,
		&user.Phone,
		&user.Company,
		&user.Profession,
		&user.ProfessionalStatus,
		&domains,
		&user.Address,
		&user.PostalCode,
		&user.City,
		&user.Country,
		&user.MembershipPlan,
		&user.MembershipStatus,
		&user.IsActive,
		&user.IsVerified,
		&lastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if user.DomainsOfInterest, err = decodeList(domains); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}

	return &user, nil
}

// Create inserts a new user into the database and sets its ID
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	domains, err := encodeList(user.DomainsOfInterest)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (
			email, password_hash, role, first_name, last_name, phone, company, profession,
			professional_status, domains_of_interest, address, postal_code, city, country,
			membership_plan, membership_status, is_active, is_verified
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.PasswordHash, user.Role, user.FirstName, user.LastName, user.Phone, user.Company, user.Profession,
		user.ProfessionalStatus, domains, user.Address, user.PostalCode, user.City, user.Country,
		user.MembershipPlan, user.MembershipStatus, user.IsActive, user.IsVerified,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrEmailTaken
		}
		r.logger.Error("failed to create user", zap.Error(err))
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	user.ID = id
	return nil
}

// GetByID retrieves a user by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE id = ?
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by id", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by e-mail address
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT` + userColumns + `
		FROM users
		WHERE email = ?
		LIMIT 1
	`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		r.logger.Error("failed to get user by email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// ExistsByEmail checks if a user exists with the given email
func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		r.logger.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// List retrieves users matching the filter, newest first
func (r *userRepository) List(ctx context.Context, filter models.UserListFilter) ([]models.User, error) {
	var whereClauses []string
	var args []any

	if filter.Role != "" {
		whereClauses = append(whereClauses, "role = ?")
		args = append(args, filter.Role)
	}
	if filter.MembershipStatus != "" {
		whereClauses = append(whereClauses, "membership_status = ?")
		args = append(args, filter.MembershipStatus)
	}
	if filter.Search != "" {
		whereClauses = append(whereClauses, "(email LIKE ? OR first_name LIKE ? OR last_name LIKE ? OR company LIKE ?)")
		pattern := "%" + filter.Search + "%"
		args = append(args, pattern, pattern, pattern, pattern)
	}

	whereClause := ""
	if len(whereClauses) > 0 {
		whereClause = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	query := `SELECT` + userColumns + `
		FROM users
		` + whereClause + `
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query users", zap.Error(err))
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			r.logger.Error("failed to scan user", zap.Error(err))
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

// Update overwrites the editable profile and membership fields of a user.
// Password, activation flag and login timestamps have dedicated methods.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	domains, err := encodeList(user.DomainsOfInterest)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET email = ?, role = ?, first_name = ?, last_name = ?, phone = ?, company = ?, profession = ?,
			professional_status = ?, domains_of_interest = ?, address = ?, postal_code = ?, city = ?, country = ?,
			membership_plan = ?, membership_status = ?, is_verified = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		user.Email, user.Role, user.FirstName, user.LastName, user.Phone, user.Company, user.Profession,
		user.ProfessionalStatus, domains, user.Address, user.PostalCode, user.City, user.Country,
		user.MembershipPlan, user.MembershipStatus, user.IsVerified,
		user.ID,
	)
	if err != nil {
		if isDuplicateEntry(err) {
			return models.ErrEmailTaken
		}
		r.logger.Error("failed to update user", zap.Error(err), zap.Int64("id", user.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}

	return checkAffected(result, models.ErrUserNotFound)
}

// UpdatePassword replaces the password hash of a user
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password_hash = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		r.logger.Error("failed to update password", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to update password: %w", err)
	}

	return checkAffected(result, models.ErrUserNotFound)
}

// ToggleActive flips the activation flag of a user and returns the new value
func (r *userRepository) ToggleActive(ctx context.Context, id int64) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("failed to begin transaction", zap.Error(err))
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE users SET is_active = NOT is_active WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to toggle user status", zap.Error(err), zap.Int64("id", id))
		return false, fmt.Errorf("failed to toggle user status: %w", err)
	}
	if err := checkAffected(result, models.ErrUserNotFound); err != nil {
		return false, err
	}

	var active bool
	if err := tx.QueryRowContext(ctx, `SELECT is_active FROM users WHERE id = ?`, id).Scan(&active); err != nil {
		r.logger.Error("failed to read user status", zap.Error(err), zap.Int64("id", id))
		return false, fmt.Errorf("failed to read user status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("failed to commit transaction", zap.Error(err))
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return active, nil
}

// UpdateLastLogin records the time of the last successful login
func (r *userRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, at, id); err != nil {
		r.logger.Error("failed to update last login", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to update last login: %w", err)
	}
	return nil
}

// Delete removes a user permanently
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return checkAffected(result, models.ErrUserNotFound)
}

// CountByMembershipStatus returns the number of members per membership status
func (r *userRepository) CountByMembershipStatus(ctx context.Context) (map[models.MembershipStatus]int, error) {
	query := `
		SELECT membership_status, COUNT(*)
		FROM users
		WHERE role = ?
		GROUP BY membership_status
	`

	rows, err := r.db.QueryContext(ctx, query, models.RoleMember)
	if err != nil {
		r.logger.Error("failed to count members", zap.Error(err))
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.MembershipStatus]int)
	for rows.Next() {
		var status models.MembershipStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			r.logger.Error("failed to scan member count", zap.Error(err))
			return nil, fmt.Errorf("failed to scan member count: %w", err)
		}
		counts[status] = count
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return counts, nil
}
