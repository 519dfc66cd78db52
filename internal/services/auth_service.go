// Package services holds the business rules of the association back-end
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/assocosmetologie/backend/internal/auth"
	"github.com/assocosmetologie/backend/internal/models"
	"go.uber.org/zap"
)

// UserRepository is the interface that wraps methods for User table data access
type UserRepository interface {
	// Method Create inserts a new user into the database.
	//
	// "user" parameter is used to create a new user, its ID is set on success.
	//
	// If the e-mail is already used, models.ErrEmailTaken is returned.
	Create(ctx context.Context, user *models.User) error
	// Method GetByID retrieves a user by ID.
	//
	// If user with such ID does not exist, models.ErrUserNotFound will be returned together with "nil" value.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// Method GetByEmail retrieves a user by e-mail address.
	//
	// If user with such e-mail does not exist, models.ErrUserNotFound will be returned together with "nil" value.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Method ExistsByEmail checks if a user with such email exists.
	//
	// If some error occurs during check, the error will be returned together with "false" value.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Method Update overwrites profile and membership fields of a user.
	//
	// If user does not exist, models.ErrUserNotFound will be returned.
	Update(ctx context.Context, user *models.User) error
	// Method UpdatePassword replaces the password hash of a user.
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// Method UpdateLastLogin records the time of the last successful login.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// TokenIssuer issues access tokens for authenticated users
type TokenIssuer interface {
	// Method GenerateAccessToken creates a signed access token for the user.
	GenerateAccessToken(user *models.User) (string, error)
}

// Notifier schedules outgoing e-mails. Implementations must not block on delivery.
type Notifier interface {
	// Method NotifyWelcome schedules the welcome e-mail of a newly registered member.
	NotifyWelcome(ctx context.Context, userID int64) error
	// Method NotifyRegistration schedules the confirmation e-mail of an event registration.
	NotifyRegistration(ctx context.Context, registrationID int64) error
}

// authService implements AuthService
type authService struct {
	userRepo UserRepository
	tokens   TokenIssuer
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(userRepo UserRepository, tokens TokenIssuer, notifier Notifier, logger *zap.Logger) *authService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Register creates a pending membership and signs the new member in
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateRegistrationRequest(req); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.ErrEmailTaken
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:              req.Email,
		PasswordHash:       passwordHash,
		Role:               models.RoleMember,
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Phone:              strings.TrimSpace(req.Phone),
		Company:            strings.TrimSpace(req.Company),
		Profession:         strings.TrimSpace(req.Profession),
		ProfessionalStatus: req.ProfessionalStatus,
		DomainsOfInterest:  trimList(req.DomainsOfInterest),
		Address:            strings.TrimSpace(req.Address),
		PostalCode:         strings.TrimSpace(req.PostalCode),
		City:               strings.TrimSpace(req.City),
		Country:            strings.TrimSpace(req.Country),
		MembershipPlan:     req.MembershipPlan,
		MembershipStatus:   models.MembershipPending,
		IsActive:           true,
	}
	applyMemberDefaults(user)

	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyWelcome(ctx, user.ID); err != nil {
		s.logger.Warn("failed to schedule welcome email", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// Login checks the credentials and returns a fresh access token.
// Unknown e-mails and wrong passwords both yield models.ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		verr := models.NewValidationError()
		if email == "" {
			verr.Add("email", "email is required")
		}
		if req.Password == "" {
			verr.Add("password", "password is required")
		}
		return nil, verr
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrInvalidCredentials
	}

	// Disabled accounts are reported only after a correct password
	if !user.IsActive || user.MembershipStatus == models.MembershipSuspended {
		return nil, models.ErrAccountDisabled
	}

	now := s.now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("failed to record last login", zap.Int64("user_id", user.ID), zap.Error(err))
	} else {
		user.LastLoginAt = &now
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &models.AuthResponse{Token: token, User: user}, nil
}

// GetProfile returns the profile of the authenticated user
func (s *authService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies the non-nil fields of req to the authenticated user's profile.
// E-mail, role and membership status are not self-editable.
func (s *authService) UpdateProfile(ctx context.Context, userID int64, req *models.UpdateProfileRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	verr := models.NewValidationError()
	setTrimmed := func(dst *string, src *string, field string, required bool, maxLen int) {
		if src == nil {
			return
		}
		value := strings.TrimSpace(*src)
		if required && value == "" {
			verr.Add(field, field+" cannot be empty")
			return
		}
		checkLengths(verr, fieldLength{field, value, maxLen})
		*dst = value
	}

	setTrimmed(&user.FirstName, req.FirstName, "firstName", true, personNameMaxLength)
	setTrimmed(&user.LastName, req.LastName, "lastName", true, personNameMaxLength)
	setTrimmed(&user.Phone, req.Phone, "phone", false, phoneMaxLength)
	setTrimmed(&user.Company, req.Company, "company", false, freeTextMaxLength)
	setTrimmed(&user.Profession, req.Profession, "profession", false, freeTextMaxLength)
	setTrimmed(&user.Address, req.Address, "address", false, freeTextMaxLength)
	setTrimmed(&user.PostalCode, req.PostalCode, "postalCode", false, postalCodeMaxLength)
	setTrimmed(&user.City, req.City, "city", false, placeMaxLength)
	setTrimmed(&user.Country, req.Country, "country", false, placeMaxLength)

	if req.ProfessionalStatus != nil {
		if !req.ProfessionalStatus.IsValid() {
			verr.Add("professionalStatus", "unknown professional status")
		} else {
			user.ProfessionalStatus = *req.ProfessionalStatus
		}
	}
	if req.DomainsOfInterest != nil {
		user.DomainsOfInterest = trimList(req.DomainsOfInterest)
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.UpdatedAt = s.now()

	return user, nil
}

// ChangePassword replaces the password of the authenticated user after checking the current one
func (s *authService) ChangePassword(ctx context.Context, userID int64, req *models.ChangePasswordRequest) error {
	verr := models.NewValidationError()
	if req.CurrentPassword == "" {
		verr.Add("currentPassword", "current password is required")
	}
	validatePassword(verr, "newPassword", req.NewPassword)
	if err := verr.OrNil(); err != nil {
		return err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := auth.CheckPassword(user.PasswordHash, req.CurrentPassword)
	if err != nil {
		return err
	}
	if !ok {
		verr := models.NewValidationError()
		verr.Add("currentPassword", "current password is incorrect")
		return verr
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, passwordHash); err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return nil
}

// applyMemberDefaults fills the optional member fields left empty by a request
func applyMemberDefaults(user *models.User) {
	if user.Role == "" {
		user.Role = models.RoleMember
	}
	if user.ProfessionalStatus == "" {
		user.ProfessionalStatus = models.DefaultProfessionalStatus
	}
	if len(user.DomainsOfInterest) == 0 {
		user.DomainsOfInterest = append([]string(nil), models.DefaultDomainsOfInterest...)
	}
	if user.Country == "" {
		user.Country = models.DefaultCountry
	}
	if user.MembershipPlan == "" {
		user.MembershipPlan = models.PlanIndividual
	}
	if user.MembershipStatus == "" {
		user.MembershipStatus = models.MembershipPending
	}
}
