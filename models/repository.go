package models

import (
	"errors"
	"time"
)

// The four event categories are a closed set. Anything else is rejected
// before persistence and dropped from category listings.
const (
	CategoryProfessional = "professional"
	CategoryNetworking   = "networking"
	CategorySocial       = "social"
	CategoryCampus       = "campus"
)

// Categories in display order.
var Categories = []string{
	CategoryProfessional,
	CategoryNetworking,
	CategorySocial,
	CategoryCampus,
}

func ValidCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const (
	RoleAlumni = "alumni"
	RoleAdmin  = "admin"
)

// ErrEmailTaken is returned by the user repository when an insert or update
// hits the unique index on email.
var ErrEmailTaken = errors.New("email already in use")

type Event struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	Date        time.Time `bson:"date" json:"date"`
	Time        string    `bson:"time" json:"time"` // wall clock "HH:MM", combined with Date only for display
	Category    string    `bson:"category" json:"category"`
	Venue       string    `bson:"venue" json:"venue"`
	TimeZone    string    `bson:"timeZone" json:"timeZone"`
	// Organizer is set once at creation and never reassigned. It is never a
	// member of Participants.
	Organizer    string   `bson:"organizer" json:"organizer"`
	Participants []string `bson:"participants" json:"participants"`
}

// HasParticipant reports set membership; Participants carries no duplicates.
func (e *Event) HasParticipant(userID string) bool {
	for _, p := range e.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// EventUpdate carries the editable fields for a partial update. ID,
// organizer and participants are never part of an update.
type EventUpdate struct {
	Title       string
	Description string
	Date        time.Time
	Time        string
	Category    string
	Venue       string
	TimeZone    string
}

// CategorizedEvents maps each of the four categories to its upcoming events.
// Every key is always present, possibly with an empty slice.
type CategorizedEvents map[string][]Event

type EventRepository interface {
	FindUpcoming() ([]Event, error)
	// FindByID returns (nil, nil) when no event matches.
	FindByID(id string) (*Event, error)
	FindByUser(userID string) ([]Event, error)
	// AddParticipant and RemoveParticipant are idempotent set operations.
	// A zero-match update (including a concurrently deleted event) is
	// success with zero effect.
	AddParticipant(eventID, userID string) error
	RemoveParticipant(eventID, userID string) error
	Create(e *Event) error
	Update(id string, upd EventUpdate) error
	// Delete removes the event physically and returns the count removed.
	Delete(id string) (int64, error)
	CategorizeUpcoming() (CategorizedEvents, error)
}

type User struct {
	ID                string `bson:"_id" json:"id"`
	Name              string `bson:"name" json:"name"`
	Email             string `bson:"email" json:"email"`
	Password          string `bson:"password" json:"-"` // bcrypt hash, never plaintext after insert
	GradYear          int    `bson:"gradYear" json:"gradYear"`
	PrefEventCategory string `bson:"prefEventCategory" json:"prefEventCategory"`
	Role              string `bson:"role" json:"role"`
	Country           string `bson:"country,omitempty" json:"country,omitempty"`
	Phone             string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// UserUpdate carries optional fields for a partial update; nil fields are
// left untouched.
type UserUpdate struct {
	Name              *string
	Email             *string
	GradYear          *int
	PrefEventCategory *string
	Country           *string
	Phone             *string
}

type UserRepository interface {
	// FindByEmail returns (nil, nil) when no user matches.
	FindByEmail(email string) (*User, error)
	FindByID(id string) (*User, error)
	ListNonAdmin() ([]User, error)
	// Insert hashes the plaintext password before persisting and assigns the
	// id. A duplicate email surfaces as ErrEmailTaken.
	Insert(u *User) error
	Update(id string, upd UserUpdate) error
	Delete(id string) error
	VerifyPassword(candidate, hash string) bool
}
