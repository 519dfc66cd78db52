package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/assocosmetologie/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var userRowColumns = []string{
	"id", "email", "password_hash", "role", "first_name", "last_name", "phone", "company", "profession",
	"professional_status", "domains_of_interest", "address", "postal_code", "city", "country",
	"membership_plan", "membership_status", "is_active", "is_verified", "last_login_at", "created_at", "updated_at",
}

func addUserRow(rows *sqlmock.Rows, id int64, email string, status models.MembershipStatus) *sqlmock.Rows {
	return rows.AddRow(
		id, email, "$2a$12$hash", "member", "Marie", "Curie", "", "", "Cosmétologue",
		"professional", []byte(`["skincare","research"]`), "1 rue de la Paix", "75002", "Paris", "France",
		"individual", string(status), true, false, nil, testNow, testNow,
	)
}

func TestNewUserRepository(t *testing.T) {
	logger := zap.NewNop()
	db := &sql.DB{}

	repo := NewUserRepository(db, logger)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
	assert.Equal(t, logger, repo.logger)
}

func TestUserRepository_Create(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expectedID    int64
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).
					WithArgs("marie@example.com", "hash", models.RoleMember, "Marie", "Curie", "", "", "",
						models.ProfessionalStatusProfessional, `["skincare","research"]`, "", "", "", "France",
						models.PlanIndividual, models.MembershipPending, true, false).
					WillReturnResult(sqlmock.NewResult(17, 1))
			},
			expectedID: 17,
		},
		{
			name: "duplicate email",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).WillReturnError(errDuplicateKey)
			},
			expectedError: models.ErrEmailTaken,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO users`).WillReturnError(errDatabase)
			},
			expectedError: errDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger := setupTestDB(t)
			repo := NewUserRepository(db, logger)
			tt.setupMock(mock)

			user := &models.User{
				Email:              "marie@example.com",
				PasswordHash:       "hash",
				Role:               models.RoleMember,
				FirstName:          "Marie",
				LastName:           "Curie",
				ProfessionalStatus: models.ProfessionalStatusProfessional,
				DomainsOfInterest:  []string{"skincare", "research"},
				Country:            "France",
				MembershipPlan:     models.PlanIndividual,
				MembershipStatus:   models.MembershipPending,
				IsActive:           true,
			}
			err := repo.Create(context.Background(), user)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, user.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedError  error
		expectAnyError bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := addUserRow(sqlmock.NewRows(userRowColumns), 5, "marie@example.com", models.MembershipActive)
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \?`).WithArgs(int64(5)).WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \?`).WithArgs(int64(5)).WillReturnError(sql.ErrNoRows)
			},
			expectedError: models.ErrUserNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \?`).WillReturnError(errDatabase)
			},
			expectedError: errDatabase,
		},
		{
			name: "corrupted interests column",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userRowColumns).AddRow(
					5, "marie@example.com", "hash", "member", "Marie", "Curie", "", "", "",
					"professional", []byte(`{broken`), "", "", "", "France",
					"individual", "active", true, false, nil, testNow, testNow,
				)
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \?`).WillReturnRows(rows)
			},
			expectAnyError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger := setupTestDB(t)
			repo := NewUserRepository(db, logger)
			tt.setupMock(mock)

			user, err := repo.GetByID(context.Background(), 5)

			switch {
			case tt.expectAnyError:
				assert.Error(t, err)
				assert.Nil(t, user)
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			default:
				require.NoError(t, err)
				assert.Equal(t, int64(5), user.ID)
				assert.Equal(t, models.MembershipActive, user.MembershipStatus)
				assert.Equal(t, []string{"skincare", "research"}, user.DomainsOfInterest)
				assert.Nil(t, user.LastLoginAt)
				assert.True(t, user.IsActiveMember())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_GetByEmail(t *testing.T) {
	db, mock, logger := setupTestDB(t)
	repo := NewUserRepository(db, logger)

	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \?`).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)
	rows := addUserRow(sqlmock.NewRows(userRowColumns), 3, "marie@example.com", models.MembershipPending)
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \?`).
		WithArgs("marie@example.com").
		WillReturnRows(rows)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, models.ErrNotFound)

	user, err := repo.GetByEmail(context.Background(), "marie@example.com")
	require.NoError(t, err)
	assert.Equal(t, "$2a$12$hash", user.PasswordHash)
	assert.False(t, user.IsActiveMember())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	db, mock, logger := setupTestDB(t)
	repo := NewUserRepository(db, logger)

	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("marie@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT EXISTS`).WithArgs("broken@example.com").WillReturnError(errDatabase)

	exists, err := repo.ExistsByEmail(context.Background(), "marie@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.ExistsByEmail(context.Background(), "broken@example.com")
	assert.ErrorIs(t, err, errDatabase)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_List(t *testing.T) {
	tests := []struct {
		name          string
		filter        models.UserListFilter
		setupMock     func(sqlmock.Sqlmock)
		expectedError bool
		expectedCount int
	}{
		{
			name: "no filter",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(userRowColumns)
				addUserRow(rows, 1, "a@example.com", models.MembershipActive)
				addUserRow(rows, 2, "b@example.com", models.MembershipPending)
				mock.ExpectQuery(`SELECT (.+) FROM users ORDER BY created_at DESC`).WillReturnRows(rows)
			},
			expectedCount: 2,
		},
		{
			name:   "status and search",
			filter: models.UserListFilter{MembershipStatus: models.MembershipActive, Search: "curie"},
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := addUserRow(sqlmock.NewRows(userRowColumns), 1, "a@example.com", models.MembershipActive)
				mock.ExpectQuery(`SELECT (.+) FROM users WHERE membership_status = \? AND \(email LIKE \?`).
					WithArgs(models.MembershipActive, "%curie%", "%curie%", "%curie%", "%curie%").
					WillReturnRows(rows)
			},
			expectedCount: 1,
		},
		{
			name: "empty result is not nil",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users`).WillReturnRows(sqlmock.NewRows(userRowColumns))
			},
			expectedCount: 0,
		},
		{
			name: "query error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM users`).WillReturnError(errDatabase)
			},
			expectedError: true,
		},
		{
			name: "rows iteration error",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := addUserRow(sqlmock.NewRows(userRowColumns), 1, "a@example.com", models.MembershipActive).
					RowError(0, errDatabase)
				mock.ExpectQuery(`SELECT (.+) FROM users`).WillReturnRows(rows)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger := setupTestDB(t)
			repo := NewUserRepository(db, logger)
			tt.setupMock(mock)

			users, err := repo.List(context.Background(), tt.filter)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Nil(t, users)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, users)
				assert.Len(t, users, tt.expectedCount)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Update(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET email = \?`).WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET email = \?`).WillReturnResult(sqlmock.NewResult(0, 0))
			},
			expectedError: models.ErrUserNotFound,
		},
		{
			name: "email taken",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE users SET email = \?`).WillReturnError(errDuplicateKey)
			},
			expectedError: models.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger := setupTestDB(t)
			repo := NewUserRepository(db, logger)
			tt.setupMock(mock)

			err := repo.Update(context.Background(), &models.User{ID: 9, Email: "new@example.com", Role: models.RoleMember})

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db, mock, logger := setupTestDB(t)
	repo := NewUserRepository(db, logger)

	mock.ExpectExec(`UPDATE users SET password_hash = \? WHERE id = \?`).
		WithArgs("new-hash", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET password_hash = \? WHERE id = \?`).
		WithArgs("new-hash", int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.UpdatePassword(context.Background(), 4, "new-hash"))
	assert.ErrorIs(t, repo.UpdatePassword(context.Background(), 99, "new-hash"), models.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ToggleActive(t *testing.T) {
	tests := []struct {
		name          string
		setupMock     func(sqlmock.Sqlmock)
		expectedError error
		expected      bool
	}{
		{
			name: "deactivates",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE users SET is_active = NOT is_active WHERE id = \?`).
					WithArgs(int64(4)).
					WillReturnResult(sqlmock.NewResult(0, 1))
				mock.ExpectQuery(`SELECT is_active FROM users WHERE id = \?`).
					WithArgs(int64(4)).
					WillReturnRows(sqlmock.NewRows([]string{"is_active"}).AddRow(false))
				mock.ExpectCommit()
			},
			expected: false,
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(`UPDATE users SET is_active`).WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectRollback()
			},
			expectedError: models.ErrUserNotFound,
		},
		{
			name: "begin fails",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin().WillReturnError(errDatabase)
			},
			expectedError: errDatabase,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger := setupTestDB(t)
			repo := NewUserRepository(db, logger)
			tt.setupMock(mock)

			active, err := repo.ToggleActive(context.Background(), 4)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, active)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Delete(t *testing.T) {
	db, mock, logger := setupTestDB(t)
	repo := NewUserRepository(db, logger)

	mock.ExpectExec(`DELETE FROM users WHERE id = \?`).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id = \?`).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM users WHERE id = \?`).WithArgs(int64(5)).WillReturnError(errDatabase)

	assert.NoError(t, repo.Delete(context.Background(), 4))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), models.ErrUserNotFound)
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), errDatabase)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	db, mock, logger := setupTestDB(t)
	repo := NewUserRepository(db, logger)

	mock.ExpectExec(`UPDATE users SET last_login_at = \? WHERE id = \?`).
		WithArgs(testNow, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdateLastLogin(context.Background(), 4, testNow))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CountByMembershipStatus(t *testing.T) {
	db, mock, logger := setupTestDB(t)
	repo := NewUserRepository(db, logger)

	rows := sqlmock.NewRows([]string{"membership_status", "count"}).
		AddRow("active", 12).
		AddRow("pending", 3)
	mock.ExpectQuery(`SELECT membership_status, COUNT\(\*\) FROM users WHERE role = \? GROUP BY membership_status`).
		WithArgs(models.RoleMember).
		WillReturnRows(rows)

	counts, err := repo.CountByMembershipStatus(context.Background())

	require.NoError(t, err)
	assert.Equal(t, map[models.MembershipStatus]int{models.MembershipActive: 12, models.MembershipPending: 3}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
