package models

import "time"

// Role is the access level of a user
type Role string

// Role constants
const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// IsValid reports whether the role is one of the known roles
func (r Role) IsValid() bool {
	return r == RoleMember || r == RoleAdmin
}

// MembershipStatus is the state of a user's association membership
type MembershipStatus string

// MembershipStatus constants
const (
	MembershipPending   MembershipStatus = "pending"
	MembershipActive    MembershipStatus = "active"
	MembershipInactive  MembershipStatus = "inactive"
	MembershipSuspended MembershipStatus = "suspended"
)

// IsValid reports whether the status is one of the known membership statuses
func (s MembershipStatus) IsValid() bool {
	switch s {
	case MembershipPending, MembershipActive, MembershipInactive, MembershipSuspended:
		return true
	}
	return false
}

// ProfessionalStatus describes the professional situation declared by a member
type ProfessionalStatus string

// ProfessionalStatus constants
const (
	ProfessionalStatusProfessional ProfessionalStatus = "professional"
	ProfessionalStatusStudent      ProfessionalStatus = "student"
	ProfessionalStatusResearcher   ProfessionalStatus = "researcher"
	ProfessionalStatusOther        ProfessionalStatus = "other"
)

// IsValid reports whether the professional status is known
func (s ProfessionalStatus) IsValid() bool {
	switch s {
	case ProfessionalStatusProfessional, ProfessionalStatusStudent, ProfessionalStatusResearcher, ProfessionalStatusOther:
		return true
	}
	return false
}

// MembershipPlan is the subscription plan picked during signup
type MembershipPlan string

// MembershipPlan constants
const (
	PlanStudent    MembershipPlan = "student"
	PlanIndividual MembershipPlan = "individual"
	PlanCorporate  MembershipPlan = "corporate"
)

// IsValid reports whether the plan is known
func (p MembershipPlan) IsValid() bool {
	return p == PlanStudent || p == PlanIndividual || p == PlanCorporate
}

// Defaults applied to new members when the request leaves them empty
var (
	DefaultProfessionalStatus = ProfessionalStatusProfessional
	DefaultDomainsOfInterest  = []string{"skincare", "research"}
	DefaultCountry            = "France"
)

// User represents a registered member or administrator
type User struct {
	ID                 int64              `json:"id"`
	Email              string             `json:"email"`
	PasswordHash       string             `json:"-"` // Never serialize password hash
	Role               Role               `json:"role"`
	FirstName          string             `json:"firstName"`
	LastName           string             `json:"lastName"`
	Phone              string             `json:"phone,omitempty"`
	Company            string             `json:"company,omitempty"`
	Profession         string             `json:"profession,omitempty"`
	ProfessionalStatus ProfessionalStatus `json:"professionalStatus"`
	DomainsOfInterest  []string           `json:"domainsOfInterest"`
	Address            string             `json:"address,omitempty"`
	PostalCode         string             `json:"postalCode,omitempty"`
	City               string             `json:"city,omitempty"`
	Country            string             `json:"country,omitempty"`
	MembershipPlan     MembershipPlan     `json:"membershipPlan"`
	MembershipStatus   MembershipStatus   `json:"membershipStatus"`
	IsActive           bool               `json:"isActive"`
	IsVerified         bool               `json:"isVerified"`
	CreatedAt          time.Time          `json:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt"`
	LastLoginAt        *time.Time         `json:"lastLoginAt,omitempty"`
}

// FullName returns first and last name joined by a space
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsActiveMember returns true if the user holds an active membership on an active account
func (u *User) IsActiveMember() bool {
	return u.IsActive && u.MembershipStatus == MembershipActive
}

// RegisterRequest represents a public membership registration request
type RegisterRequest struct {
	Email              string             `json:"email"`
	Password           string             `json:"password"`
	FirstName          string             `json:"firstName"`
	LastName           string             `json:"lastName"`
	Phone              string             `json:"phone,omitempty"`
	Company            string             `json:"company,omitempty"`
	Profession         string             `json:"profession,omitempty"`
	ProfessionalStatus ProfessionalStatus `json:"professionalStatus,omitempty"`
	DomainsOfInterest  []string           `json:"domainOfInterest,omitempty"`
	Address            string             `json:"address,omitempty"`
	PostalCode         string             `json:"postalCode,omitempty"`
	City               string             `json:"city,omitempty"`
	Country            string             `json:"country,omitempty"`
	MembershipPlan     MembershipPlan     `json:"plan,omitempty"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and registration
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateProfileRequest represents a self-service profile update.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	FirstName          *string             `json:"firstName,omitempty"`
	LastName           *string             `json:"lastName,omitempty"`
	Phone              *string             `json:"phone,omitempty"`
	Company            *string             `json:"company,omitempty"`
	Profession         *string             `json:"profession,omitempty"`
	ProfessionalStatus *ProfessionalStatus `json:"professionalStatus,omitempty"`
	DomainsOfInterest  []string            `json:"domainsOfInterest,omitempty"`
	Address            *string             `json:"address,omitempty"`
	PostalCode         *string             `json:"postalCode,omitempty"`
	City               *string             `json:"city,omitempty"`
	Country            *string             `json:"country,omitempty"`
}

// ChangePasswordRequest represents a self-service password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// MemberRequest is used by admins to create or update a member.
// On update an empty password keeps the current one.
type MemberRequest struct {
	Email              string             `json:"email"`
	Password           string             `json:"password,omitempty"`
	FirstName          string             `json:"firstName"`
	LastName           string             `json:"lastName"`
	Phone              string             `json:"phone,omitempty"`
	Company            string             `json:"company,omitempty"`
	Profession         string             `json:"profession,omitempty"`
	Role               Role               `json:"role,omitempty"`
	ProfessionalStatus ProfessionalStatus `json:"professionalStatus,omitempty"`
	DomainsOfInterest  []string           `json:"domainsOfInterest,omitempty"`
	Address            string             `json:"address,omitempty"`
	PostalCode         string             `json:"postalCode,omitempty"`
	City               string             `json:"city,omitempty"`
	Country            string             `json:"country,omitempty"`
	MembershipPlan     MembershipPlan     `json:"membershipPlan,omitempty"`
	MembershipStatus   MembershipStatus   `json:"membershipStatus,omitempty"`
	IsVerified         bool               `json:"isVerified"`
}

// SetPasswordRequest is used by admins to reset a member's password
type SetPasswordRequest struct {
	Password string `json:"password"`
}

// UserListFilter narrows the admin members list
type UserListFilter struct {
	Role             Role
	MembershipStatus MembershipStatus
	Search           string
}
