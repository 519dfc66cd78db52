package services

import (
	"context"
	"strings"
	"time"

	"github.com/assocosmetologie/backend/internal/auth"
	"github.com/assocosmetologie/backend/internal/models"
	"go.uber.org/zap"
)

// MemberRepository is the interface that wraps admin methods for User table data access
type MemberRepository interface {
	UserRepository
	// Method List retrieves users matching the filter, newest first.
	List(ctx context.Context, filter models.UserListFilter) ([]models.User, error)
	// Method ToggleActive flips the activation flag of a user and returns the new value.
	//
	// If user does not exist, models.ErrUserNotFound will be returned together with "false" value.
	ToggleActive(ctx context.Context, id int64) (bool, error)
	// Method Delete removes a user permanently.
	Delete(ctx context.Context, id int64) error
	// Method CountByMembershipStatus returns the number of members per membership status.
	CountByMembershipStatus(ctx context.Context) (map[models.MembershipStatus]int, error)
}

// memberService implements MemberService
type memberService struct {
	memberRepo MemberRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo MemberRepository, logger *zap.Logger) *memberService {
	return &memberService{
		memberRepo: memberRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns the users matching the filter
func (s *memberService) List(ctx context.Context, filter models.UserListFilter) ([]models.User, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	return s.memberRepo.List(ctx, filter)
}

// Get returns one user
func (s *memberService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.memberRepo.GetByID(ctx, id)
}

// Create validates and stores a new member on behalf of an admin
func (s *memberService) Create(ctx context.Context, req *models.MemberRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateMemberRequest(req, true); err != nil {
		return nil, err
	}

	exists, err := s.memberRepo.ExistsByEmail(ctx, req.Email)
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

	user := &models.User{PasswordHash: passwordHash, IsActive: true}
	applyMemberRequest(user, req)
	applyMemberDefaults(user)

	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	if err := s.memberRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("member created by admin", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Update validates and overwrites a member. A non-empty password also resets the password.
func (s *memberService) Update(ctx context.Context, id int64, req *models.MemberRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validateMemberRequest(req, false); err != nil {
		return nil, err
	}

	user, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Hash first so a failure leaves the member untouched
	var passwordHash string
	if req.Password != "" {
		if passwordHash, err = auth.HashPassword(req.Password); err != nil {
			return nil, err
		}
	}

	applyMemberRequest(user, req)
	applyMemberDefaults(user)

	if err := s.memberRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if passwordHash != "" {
		if err := s.memberRepo.UpdatePassword(ctx, id, passwordHash); err != nil {
			return nil, err
		}
	}
	user.UpdatedAt = s.now()

	return user, nil
}

// ToggleStatus flips the activation flag of a member and returns the updated member.
// Admins cannot deactivate their own account.
func (s *memberService) ToggleStatus(ctx context.Context, id, actorID int64) (*models.User, error) {
	if id == actorID {
		return nil, models.ErrForbidden
	}

	active, err := s.memberRepo.ToggleActive(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("member status toggled", zap.Int64("user_id", id), zap.Bool("is_active", active))

	return s.memberRepo.GetByID(ctx, id)
}

// SetPassword replaces a member's password on behalf of an admin
func (s *memberService) SetPassword(ctx context.Context, id int64, req *models.SetPasswordRequest) error {
	verr := models.NewValidationError()
	validatePassword(verr, "password", req.Password)
	if err := verr.OrNil(); err != nil {
		return err
	}

	return s.setPassword(ctx, id, req.Password)
}

// Delete removes a member permanently. Admins cannot delete their own account.
func (s *memberService) Delete(ctx context.Context, id, actorID int64) error {
	if id == actorID {
		return models.ErrForbidden
	}
	return s.memberRepo.Delete(ctx, id)
}

func (s *memberService) setPassword(ctx context.Context, id int64, password string) error {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.memberRepo.UpdatePassword(ctx, id, passwordHash)
}

// applyMemberRequest copies a validated admin request onto a user
func applyMemberRequest(user *models.User, req *models.MemberRequest) {
	user.Email = req.Email
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Company = strings.TrimSpace(req.Company)
	user.Profession = strings.TrimSpace(req.Profession)
	user.Address = strings.TrimSpace(req.Address)
	user.PostalCode = strings.TrimSpace(req.PostalCode)
	user.City = strings.TrimSpace(req.City)
	user.Country = strings.TrimSpace(req.Country)
	user.IsVerified = req.IsVerified

	if req.Role != "" {
		user.Role = req.Role
	}
	if req.ProfessionalStatus != "" {
		user.ProfessionalStatus = req.ProfessionalStatus
	}
	if req.DomainsOfInterest != nil {
		user.DomainsOfInterest = trimList(req.DomainsOfInterest)
	}
	if req.MembershipPlan != "" {
		user.MembershipPlan = req.MembershipPlan
	}
	if req.MembershipStatus != "" {
		user.MembershipStatus = req.MembershipStatus
	}
}
