package models

import "time"

// EventType classifies association events
type EventType string

// EventType constants
const (
	EventTypeCongress   EventType = "congress"
	EventTypeWorkshop   EventType = "workshop"
	EventTypeTraining   EventType = "training"
	EventTypeExhibition EventType = "exhibition"
	EventTypeNetworking EventType = "networking"
	EventTypeVisit      EventType = "visit"
)

// IsValid reports whether the event type is known
func (t EventType) IsValid() bool {
	switch t {
	case EventTypeCongress, EventTypeWorkshop, EventTypeTraining, EventTypeExhibition, EventTypeNetworking, EventTypeVisit:
		return true
	}
	return false
}

// EventStatus is the lifecycle state of an event
type EventStatus string

// EventStatus constants
const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusPast      EventStatus = "past"
	EventStatusCancelled EventStatus = "cancelled"
)

// IsValid reports whether the event status is known
func (s EventStatus) IsValid() bool {
	return s == EventStatusUpcoming || s == EventStatusPast || s == EventStatusCancelled
}

// DefaultOrganizer is used when an event is created without an organizer
const DefaultOrganizer = "Association de Cosmétologie"

// Event represents an association event
type Event struct {
	ID                   int64       `json:"id"`
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	Type                 EventType   `json:"type"`
	StartDate            time.Time   `json:"startDate"`
	EndDate              time.Time   `json:"endDate"`
	Location             string      `json:"location"`
	IsOnline             bool        `json:"isOnline"`
	IsMemberOnly         bool        `json:"isMemberOnly"`
	MaxAttendees         *int        `json:"maxAttendees,omitempty"`
	CurrentAttendees     int         `json:"currentAttendees"`
	RegistrationRequired bool        `json:"registrationRequired"`
	RegistrationDeadline *time.Time  `json:"registrationDeadline,omitempty"`
	Price                float64     `json:"price"`
	MemberPrice          float64     `json:"memberPrice"`
	Image                string      `json:"image,omitempty"`
	Status               EventStatus `json:"status"`
	Program              []string    `json:"program"`
	Organizer            string      `json:"organizer"`
	Tags                 []string    `json:"tags"`
	IsFeatured           bool        `json:"isFeatured"`
	CreatedAt            time.Time   `json:"createdAt"`
	UpdatedAt            time.Time   `json:"updatedAt"`
}

// IsFull returns true when the capacity is set and reached
func (e *Event) IsFull() bool {
	return e.MaxAttendees != nil && e.CurrentAttendees >= *e.MaxAttendees
}

// IsOpenForRegistration reports whether registrations are still accepted at the given time
func (e *Event) IsOpenForRegistration(now time.Time) bool {
	if e.Status != EventStatusUpcoming {
		return false
	}
	if e.RegistrationDeadline != nil && now.After(*e.RegistrationDeadline) {
		return false
	}
	return true
}

// EventRequest is used by admins to create or update an event
type EventRequest struct {
	Title                string      `json:"title"`
	Description          string      `json:"description"`
	Type                 EventType   `json:"type"`
	StartDate            *time.Time  `json:"startDate"`
	EndDate              *time.Time  `json:"endDate"`
	Location             string      `json:"location"`
	IsOnline             bool        `json:"isOnline"`
	IsMemberOnly         bool        `json:"isMemberOnly"`
	MaxAttendees         *int        `json:"maxAttendees,omitempty"`
	RegistrationRequired bool        `json:"registrationRequired"`
	RegistrationDeadline *time.Time  `json:"registrationDeadline,omitempty"`
	Price                float64     `json:"price"`
	MemberPrice          float64     `json:"memberPrice"`
	Image                string      `json:"image,omitempty"`
	Status               EventStatus `json:"status,omitempty"`
	Program              []string    `json:"program,omitempty"`
	Organizer            string      `json:"organizer,omitempty"`
	Tags                 []string    `json:"tags,omitempty"`
	IsFeatured           bool        `json:"isFeatured"`
}

// EventFilter narrows the public events list
type EventFilter struct {
	Type     EventType
	Status   EventStatus
	Featured bool
}
