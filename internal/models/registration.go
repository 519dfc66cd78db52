package models

import "time"

// Registration is a persisted event registration
type Registration struct {
	ID               int64     `json:"id"`
	EventID          int64     `json:"eventId"`
	UserID           *int64    `json:"userId,omitempty"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Company          string    `json:"company,omitempty"`
	DeclaredMember   bool      `json:"declaredMember"`
	MemberPricing    bool      `json:"memberPricing"`
	Price            float64   `json:"price"`
	Notes            string    `json:"notes,omitempty"`
	ConfirmationCode string    `json:"confirmationCode"`
	CreatedAt        time.Time `json:"createdAt"`
}

// EventRegistrationRequest is the body of POST /events/{id}/register.
// IsMember accepts "yes"/"no" as sent by the public form as well as JSON booleans.
type EventRegistrationRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company,omitempty"`
	IsMember YesNo  `json:"isMember"`
	Notes    string `json:"notes,omitempty"`
}

// Attendee is echoed back in the registration confirmation
type Attendee struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Company  string `json:"company,omitempty"`
	IsMember bool   `json:"isMember"`
}

// RegistrationConfirmation is returned after a successful event registration
type RegistrationConfirmation struct {
	EventID          int64     `json:"eventId"`
	EventTitle       string    `json:"eventTitle"`
	Attendee         Attendee  `json:"attendee"`
	Price            float64   `json:"price"`
	MemberPricing    bool      `json:"memberPricing"`
	ConfirmationCode string    `json:"confirmationCode"`
	RegistrationDate time.Time `json:"registrationDate"`
}

// RegistrationDetails joins a registration with its event, used for confirmation e-mails
type RegistrationDetails struct {
	Registration
	EventTitle    string    `json:"eventTitle"`
	EventStart    time.Time `json:"eventStart"`
	EventLocation string    `json:"eventLocation"`
}

// AdminStats summarises the back-office overview
type AdminStats struct {
	TotalMembers       int                      `json:"totalMembers"`
	MembersByStatus    map[MembershipStatus]int `json:"membersByStatus"`
	UpcomingEvents     int                      `json:"upcomingEvents"`
	PublishedArticles  int                      `json:"publishedArticles"`
	TotalRegistrations int                      `json:"totalRegistrations"`
}
