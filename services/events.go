package services

import (
	"errors"
	"time"

	"winterfell/models"
)

// Sentinel errors the handlers translate into user-facing messages. Not
// found and not organizer stay distinct here even though some pages show
// the same generic denial for both.
var (
	ErrEventNotFound = errors.New("event not found")
	ErrNotOrganizer  = errors.New("only the organizer may modify this event")
	ErrIsOrganizer   = errors.New("you are the organizer of this event")
	ErrAlreadyJoined = errors.New("you are already participating in this event")
	ErrInvalidEvent  = errors.New("please fill in all fields with valid information")
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// EventInput is the raw form input for organizing or editing an event.
type EventInput struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	Date        string `form:"date" json:"date"` // YYYY-MM-DD
	Category    string `form:"category" json:"category"`
	Time        string `form:"time" json:"time"` // HH:MM
	Venue       string `form:"venue" json:"venue"`
	TimeZone    string `form:"timeZone" json:"timeZone"`
}

// EventView is an event shaped for display: formatted date/time strings and
// the viewer-relative flags. The flags are derived per request and never
// persisted.
type EventView struct {
	models.Event
	FormattedDate string `json:"formattedDate"`
	FormattedTime string `json:"formattedTime"`
	IsOrganizer   bool   `json:"isOrganizer"`
	IsParticipant bool   `json:"isParticipant"`
}

// EditView is an event prepared for the edit form: the date as a form value
// and one flag per category for the select control.
type EditView struct {
	EventView
	DateValue              string `json:"dateValue"` // YYYY-MM-DD
	IsProfessionalCategory bool   `json:"isProfessionalCategory"`
	IsNetworkingCategory   bool   `json:"isNetworkingCategory"`
	IsSocialCategory       bool   `json:"isSocialCategory"`
	IsCampusCategory       bool   `json:"isCampusCategory"`
}

// EventService layers authorization and derived-view logic over the event
// repository. The repository is injected once at construction; nothing is
// attached per request.
type EventService struct {
	events models.EventRepository
}

func NewEventService(events models.EventRepository) *EventService {
	return &EventService{events: events}
}

// validate checks presence of every field, the closed category set and that
// date and time parse. The same set runs on create and on edit.
func validate(in EventInput) (time.Time, error) {
	if in.Title == "" || in.Description == "" || in.Date == "" ||
		in.Category == "" || in.Time == "" || in.Venue == "" || in.TimeZone == "" {
		return time.Time{}, ErrInvalidEvent
	}
	if !models.ValidCategory(in.Category) {
		return time.Time{}, ErrInvalidEvent
	}
	date, err := time.Parse(dateLayout, in.Date)
	if err != nil {
		return time.Time{}, ErrInvalidEvent
	}
	if _, err := time.Parse(clockLayout, in.Time); err != nil {
		return time.Time{}, ErrInvalidEvent
	}
	return date.UTC(), nil
}

// Organize creates an event owned by the caller. Participants start empty,
// so the organizer-not-a-participant invariant holds from birth.
func (s *EventService) Organize(callerID string, in EventInput) (*models.Event, error) {
	date, err := validate(in)
	if err != nil {
		return nil, err
	}
	e := &models.Event{
		Title:        in.Title,
		Description:  in.Description,
		Date:         date,
		Time:         in.Time,
		Category:     in.Category,
		Venue:        in.Venue,
		TimeZone:     in.TimeZone,
		Organizer:    callerID,
		Participants: []string{},
	}
	if err := s.events.Create(e); err != nil {
		return nil, err
	}
	return e, nil
}

// ownedEvent loads an event and checks the caller is its organizer.
func (s *EventService) ownedEvent(callerID, eventID string) (*models.Event, error) {
	e, err := s.events.FindByID(eventID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	if e.Organizer != callerID {
		return nil, ErrNotOrganizer
	}
	return e, nil
}

// Edit re-validates the full field set and applies a partial update. Only
// the organizer may edit; id, organizer and participants stay untouched.
func (s *EventService) Edit(callerID, eventID string, in EventInput) error {
	if _, err := s.ownedEvent(callerID, eventID); err != nil {
		return err
	}
	date, err := validate(in)
	if err != nil {
		return err
	}
	return s.events.Update(eventID, models.EventUpdate{
		Title:       in.Title,
		Description: in.Description,
		Date:        date,
		Time:        in.Time,
		Category:    in.Category,
		Venue:       in.Venue,
		TimeZone:    in.TimeZone,
	})
}

// Cancel is the organizer's self-service delete. Removal is physical.
func (s *EventService) Cancel(callerID, eventID string) error {
	if _, err := s.ownedEvent(callerID, eventID); err != nil {
		return err
	}
	_, err := s.events.Delete(eventID)
	return err
}

// AdminCancel deletes any event unconditionally. The admin role gate lives
// upstream in the route middleware.
func (s *EventService) AdminCancel(eventID string) error {
	_, err := s.events.Delete(eventID)
	return err
}

// Join adds the caller to the participant set. The organizer and existing
// participants are rejected with distinct errors; the add itself is an
// idempotent set operation.
func (s *EventService) Join(callerID, eventID string) error {
	e, err := s.events.FindByID(eventID)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrEventNotFound
	}
	if e.Organizer == callerID {
		return ErrIsOrganizer
	}
	if e.HasParticipant(callerID) {
		return ErrAlreadyJoined
	}
	return s.events.AddParticipant(eventID, callerID)
}

// Leave removes the caller from the participant set. Leaving an event the
// caller never joined, or one that no longer exists, is still success.
func (s *EventService) Leave(callerID, eventID string) error {
	return s.events.RemoveParticipant(eventID, callerID)
}

// Get returns a single event or ErrEventNotFound.
func (s *EventService) Get(eventID string) (*models.Event, error) {
	e, err := s.events.FindByID(eventID)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}
	return e, nil
}

// Upcoming returns the public upcoming list, formatted for display.
func (s *EventService) Upcoming() ([]EventView, error) {
	events, err := s.events.FindUpcoming()
	if err != nil {
		return nil, err
	}
	return viewsOf(events, ""), nil
}

// UpcomingForViewer is Upcoming with the viewer-relative flags filled in.
func (s *EventService) UpcomingForViewer(viewerID string) ([]EventView, error) {
	events, err := s.events.FindUpcoming()
	if err != nil {
		return nil, err
	}
	return viewsOf(events, viewerID), nil
}

// CategoriesForViewer buckets the upcoming events and annotates every bucket
// for the viewer.
func (s *EventService) CategoriesForViewer(viewerID string) (map[string][]EventView, error) {
	buckets, err := s.events.CategorizeUpcoming()
	if err != nil {
		return nil, err
	}
	out := map[string][]EventView{}
	for category, events := range buckets {
		out[category] = viewsOf(events, viewerID)
	}
	return out, nil
}

// MyEvents splits the user's events into those they organize and those they
// participate in. Past events stay listed; only the upcoming queries filter
// by date.
func (s *EventService) MyEvents(userID string) (organizing, participating []EventView, err error) {
	events, err := s.events.FindByUser(userID)
	if err != nil {
		return nil, nil, err
	}
	organizing = []EventView{}
	participating = []EventView{}
	for _, e := range events {
		v := viewOf(e, userID)
		if v.IsOrganizer {
			organizing = append(organizing, v)
		}
		if v.IsParticipant {
			participating = append(participating, v)
		}
	}
	return organizing, participating, nil
}

// ForEdit loads an organizer's event shaped for the edit form.
func (s *EventService) ForEdit(callerID, eventID string) (*EditView, error) {
	e, err := s.ownedEvent(callerID, eventID)
	if err != nil {
		return nil, err
	}
	v := EditView{
		EventView:              viewOf(*e, callerID),
		DateValue:              e.Date.Format(dateLayout),
		IsProfessionalCategory: e.Category == models.CategoryProfessional,
		IsNetworkingCategory:   e.Category == models.CategoryNetworking,
		IsSocialCategory:       e.Category == models.CategorySocial,
		IsCampusCategory:       e.Category == models.CategoryCampus,
	}
	return &v, nil
}

func viewsOf(events []models.Event, viewerID string) []EventView {
	out := make([]EventView, 0, len(events))
	for _, e := range events {
		out = append(out, viewOf(e, viewerID))
	}
	return out
}

func viewOf(e models.Event, viewerID string) EventView {
	return EventView{
		Event:         e,
		FormattedDate: FormatDate(e.Date),
		FormattedTime: FormatTime(e.Time),
		IsOrganizer:   viewerID != "" && e.Organizer == viewerID,
		IsParticipant: viewerID != "" && e.HasParticipant(viewerID),
	}
}

// FormatDate renders the long en-US date, e.g. "Monday, January 1, 2030".
func FormatDate(d time.Time) string {
	return d.Format("Monday, January 2, 2006")
}

// FormatTime renders the stored HH:MM clock as 12-hour time, e.g.
// "02:30 PM". A malformed clock falls back to the raw string.
func FormatTime(clock string) string {
	t, err := time.Parse(clockLayout, clock)
	if err != nil {
		return clock
	}
	return t.Format("03:04 PM")
}
