package services

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"winterfell/models"
)

/* ---------- in-memory event repo ---------- */

type fakeEventRepo struct {
	items map[string]models.Event
	seq   int
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{items: map[string]models.Event{}}
}

func (f *fakeEventRepo) FindUpcoming() ([]models.Event, error) {
	now := time.Now().UTC()
	out := []models.Event{}
	for _, e := range f.items {
		if !e.Date.Before(now) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (f *fakeEventRepo) FindByID(id string) (*models.Event, error) {
	e, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	cp := e
	cp.Participants = append([]string{}, e.Participants...)
	return &cp, nil
}

func (f *fakeEventRepo) FindByUser(userID string) ([]models.Event, error) {
	out := []models.Event{}
	for _, e := range f.items {
		if e.Organizer == userID || e.HasParticipant(userID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEventRepo) AddParticipant(eventID, userID string) error {
	e, ok := f.items[eventID]
	if !ok {
		return nil // zero-match update is success with zero effect
	}
	if !e.HasParticipant(userID) {
		e.Participants = append(e.Participants, userID)
		f.items[eventID] = e
	}
	return nil
}

func (f *fakeEventRepo) RemoveParticipant(eventID, userID string) error {
	e, ok := f.items[eventID]
	if !ok {
		return nil
	}
	kept := e.Participants[:0]
	for _, p := range e.Participants {
		if p != userID {
			kept = append(kept, p)
		}
	}
	e.Participants = kept
	f.items[eventID] = e
	return nil
}

func (f *fakeEventRepo) Create(e *models.Event) error {
	if e.ID == "" {
		f.seq++
		e.ID = fmt.Sprintf("e-%d", f.seq)
	}
	if e.Participants == nil {
		e.Participants = []string{}
	}
	f.items[e.ID] = *e
	return nil
}

func (f *fakeEventRepo) Update(id string, upd models.EventUpdate) error {
	e, ok := f.items[id]
	if !ok {
		return nil
	}
	e.Title = upd.Title
	e.Description = upd.Description
	e.Date = upd.Date
	e.Time = upd.Time
	e.Category = upd.Category
	e.Venue = upd.Venue
	e.TimeZone = upd.TimeZone
	f.items[id] = e
	return nil
}

func (f *fakeEventRepo) Delete(id string) (int64, error) {
	if _, ok := f.items[id]; !ok {
		return 0, nil
	}
	delete(f.items, id)
	return 1, nil
}

func (f *fakeEventRepo) CategorizeUpcoming() (models.CategorizedEvents, error) {
	events, err := f.FindUpcoming()
	if err != nil {
		return nil, err
	}
	return models.PartitionByCategory(events), nil
}

/* ---------- helpers ---------- */

func newService() (*EventService, *fakeEventRepo) {
	repo := newFakeEventRepo()
	return NewEventService(repo), repo
}

func validInput() EventInput {
	return EventInput{
		Title:       "Winter Gala",
		Description: "Annual alumni gathering",
		Date:        "2030-01-01",
		Category:    models.CategorySocial,
		Time:        "14:30",
		Venue:       "Great Hall",
		TimeZone:    "Europe/London",
	}
}

/* ---------- organize ---------- */

func TestOrganizeSetsOrganizerAndEmptyParticipants(t *testing.T) {
	svc, repo := newService()

	e, err := svc.Organize("user-O", validInput())
	if err != nil {
		t.Fatalf("organize: %v", err)
	}
	if e.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if e.Organizer != "user-O" {
		t.Fatalf("organizer = %q, want user-O", e.Organizer)
	}
	if len(e.Participants) != 0 {
		t.Fatalf("participants = %v, want empty", e.Participants)
	}
	if e.HasParticipant(e.Organizer) {
		t.Fatalf("organizer must never be a participant")
	}
	if e.Category != models.CategorySocial {
		t.Fatalf("category = %q", e.Category)
	}
	if e.Date.Format("2006-01-02") != "2030-01-01" || e.Time != "14:30" {
		t.Fatalf("date/time not stored as given: %v %q", e.Date, e.Time)
	}
	if _, ok := repo.items[e.ID]; !ok {
		t.Fatalf("event not persisted")
	}
}

func TestOrganizeRejectsInvalidInput(t *testing.T) {
	svc, repo := newService()

	cases := map[string]func(*EventInput){
		"missing title":    func(in *EventInput) { in.Title = "" },
		"missing venue":    func(in *EventInput) { in.Venue = "" },
		"missing timezone": func(in *EventInput) { in.TimeZone = "" },
		"bad category":     func(in *EventInput) { in.Category = "bogus" },
		"bad date":         func(in *EventInput) { in.Date = "01/01/2030" },
		"impossible date":  func(in *EventInput) { in.Date = "2030-02-30" },
		"bad time":         func(in *EventInput) { in.Time = "25:99" },
	}
	for name, mutate := range cases {
		in := validInput()
		mutate(&in)
		if _, err := svc.Organize("user-O", in); err != ErrInvalidEvent {
			t.Errorf("%s: err = %v, want ErrInvalidEvent", name, err)
		}
	}
	if len(repo.items) != 0 {
		t.Fatalf("no event should be persisted on validation failure")
	}
}

/* ---------- join / leave ---------- */

func TestJoinIsSetAddWithDistinctRejections(t *testing.T) {
	svc, repo := newService()
	e, _ := svc.Organize("user-O", validInput())

	if err := svc.Join("user-U", e.ID); err != nil {
		t.Fatalf("first join: %v", err)
	}
	got, _ := repo.FindByID(e.ID)
	if len(got.Participants) != 1 || got.Participants[0] != "user-U" {
		t.Fatalf("participants = %v, want [user-U]", got.Participants)
	}

	// joining again is rejected and leaves the set unchanged
	if err := svc.Join("user-U", e.ID); err != ErrAlreadyJoined {
		t.Fatalf("second join err = %v, want ErrAlreadyJoined", err)
	}
	got, _ = repo.FindByID(e.ID)
	if len(got.Participants) != 1 {
		t.Fatalf("participants = %v after duplicate join", got.Participants)
	}

	// the organizer cannot join their own event
	if err := svc.Join("user-O", e.ID); err != ErrIsOrganizer {
		t.Fatalf("organizer join err = %v, want ErrIsOrganizer", err)
	}

	if err := svc.Join("user-U", "no-such-event"); err != ErrEventNotFound {
		t.Fatalf("missing event join err = %v, want ErrEventNotFound", err)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	svc, repo := newService()
	e, _ := svc.Organize("user-O", validInput())
	if err := svc.Join("user-U", e.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	if err := svc.Leave("user-U", e.ID); err != nil {
		t.Fatalf("leave: %v", err)
	}
	got, _ := repo.FindByID(e.ID)
	if len(got.Participants) != 0 {
		t.Fatalf("participants = %v, want empty", got.Participants)
	}

	// leaving again, and leaving a deleted event, both succeed
	if err := svc.Leave("user-U", e.ID); err != nil {
		t.Fatalf("second leave: %v", err)
	}
	if err := svc.Leave("user-U", "no-such-event"); err != nil {
		t.Fatalf("leave missing event: %v", err)
	}
}

/* ---------- edit / cancel ---------- */

func TestEditRequiresOrganizerAndRevalidates(t *testing.T) {
	svc, repo := newService()
	e, _ := svc.Organize("user-O", validInput())

	in := validInput()
	in.Title = "Renamed Gala"
	if err := svc.Edit("user-X", e.ID, in); err != ErrNotOrganizer {
		t.Fatalf("non-organizer edit err = %v, want ErrNotOrganizer", err)
	}
	if repo.items[e.ID].Title != "Winter Gala" {
		t.Fatalf("event changed by rejected edit")
	}

	// the same validation set runs on edit as on create
	bad := validInput()
	bad.Date = "not-a-date"
	if err := svc.Edit("user-O", e.ID, bad); err != ErrInvalidEvent {
		t.Fatalf("bad date edit err = %v, want ErrInvalidEvent", err)
	}

	if err := svc.Edit("user-O", e.ID, in); err != nil {
		t.Fatalf("organizer edit: %v", err)
	}
	got := repo.items[e.ID]
	if got.Title != "Renamed Gala" {
		t.Fatalf("title = %q", got.Title)
	}
	if got.Organizer != "user-O" {
		t.Fatalf("organizer must be untouched by edit, got %q", got.Organizer)
	}

	if err := svc.Edit("user-O", "no-such-event", in); err != ErrEventNotFound {
		t.Fatalf("missing event edit err = %v, want ErrEventNotFound", err)
	}
}

func TestCancelRequiresOrganizer(t *testing.T) {
	svc, repo := newService()
	e, _ := svc.Organize("user-O", validInput())
	_ = svc.Join("user-U", e.ID)

	if err := svc.Cancel("user-U", e.ID); err != ErrNotOrganizer {
		t.Fatalf("non-organizer cancel err = %v, want ErrNotOrganizer", err)
	}
	if _, ok := repo.items[e.ID]; !ok {
		t.Fatalf("event deleted by rejected cancel")
	}

	if err := svc.Cancel("user-O", e.ID); err != nil {
		t.Fatalf("organizer cancel: %v", err)
	}

	// gone from every query
	if got, _ := repo.FindByID(e.ID); got != nil {
		t.Fatalf("FindByID still returns cancelled event")
	}
	if upcoming, _ := repo.FindUpcoming(); len(upcoming) != 0 {
		t.Fatalf("FindUpcoming still returns cancelled event")
	}
	if mine, _ := repo.FindByUser("user-U"); len(mine) != 0 {
		t.Fatalf("FindByUser still returns cancelled event")
	}
}

func TestAdminCancelIgnoresOwnership(t *testing.T) {
	svc, repo := newService()
	e, _ := svc.Organize("user-O", validInput())

	if err := svc.AdminCancel(e.ID); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if _, ok := repo.items[e.ID]; ok {
		t.Fatalf("event still present after admin cancel")
	}

	// deleting an already-gone event is not an error
	if err := svc.AdminCancel(e.ID); err != nil {
		t.Fatalf("repeated admin cancel: %v", err)
	}
}

/* ---------- categorization ---------- */

func TestCategoriesPartitionDropsUnknown(t *testing.T) {
	svc, repo := newService()

	mk := func(id, category string) {
		repo.items[id] = models.Event{
			ID:           id,
			Title:        id,
			Date:         time.Now().UTC().Add(48 * time.Hour),
			Time:         "10:00",
			Category:     category,
			Organizer:    "user-O",
			Participants: []string{"user-U"},
		}
	}
	mk("e1", models.CategorySocial)
	mk("e2", "bogus")
	mk("e3", models.CategoryCampus)

	buckets, err := svc.CategoriesForViewer("user-U")
	if err != nil {
		t.Fatalf("categorize: %v", err)
	}

	if len(buckets) != 4 {
		t.Fatalf("want all four buckets, got %d", len(buckets))
	}
	if len(buckets[models.CategorySocial]) != 1 || buckets[models.CategorySocial][0].ID != "e1" {
		t.Fatalf("social bucket = %+v", buckets[models.CategorySocial])
	}
	if len(buckets[models.CategoryCampus]) != 1 || buckets[models.CategoryCampus][0].ID != "e3" {
		t.Fatalf("campus bucket = %+v", buckets[models.CategoryCampus])
	}
	if len(buckets[models.CategoryProfessional]) != 0 || len(buckets[models.CategoryNetworking]) != 0 {
		t.Fatalf("empty buckets not empty")
	}

	// every bucketed event carries exactly one bucket, no duplicates
	seen := map[string]int{}
	for _, events := range buckets {
		for _, e := range events {
			seen[e.ID]++
		}
	}
	if seen["e2"] != 0 {
		t.Fatalf("unknown-category event must be dropped from all buckets")
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("event %s appears in %d buckets", id, n)
		}
	}

	// viewer flags are applied across buckets
	if !buckets[models.CategorySocial][0].IsParticipant {
		t.Fatalf("participant flag missing on bucketed event")
	}
	if buckets[models.CategorySocial][0].IsOrganizer {
		t.Fatalf("organizer flag wrongly set for participant viewer")
	}
}

/* ---------- derived views ---------- */

func TestMyEventsSplitsByRole(t *testing.T) {
	svc, _ := newService()

	mine, _ := svc.Organize("user-A", validInput())
	theirs, _ := svc.Organize("user-B", validInput())
	if err := svc.Join("user-A", theirs.ID); err != nil {
		t.Fatalf("join: %v", err)
	}

	organizing, participating, err := svc.MyEvents("user-A")
	if err != nil {
		t.Fatalf("my events: %v", err)
	}
	if len(organizing) != 1 || organizing[0].ID != mine.ID {
		t.Fatalf("organizing = %+v", organizing)
	}
	if !organizing[0].IsOrganizer || organizing[0].IsParticipant {
		t.Fatalf("flags wrong on organizing view: %+v", organizing[0])
	}
	if len(participating) != 1 || participating[0].ID != theirs.ID {
		t.Fatalf("participating = %+v", participating)
	}
	if participating[0].IsOrganizer || !participating[0].IsParticipant {
		t.Fatalf("flags wrong on participating view: %+v", participating[0])
	}
}

func TestForEditShapesFormView(t *testing.T) {
	svc, _ := newService()
	e, _ := svc.Organize("user-O", validInput())

	view, err := svc.ForEdit("user-O", e.ID)
	if err != nil {
		t.Fatalf("for edit: %v", err)
	}
	if view.DateValue != "2030-01-01" {
		t.Fatalf("date value = %q", view.DateValue)
	}
	if !view.IsSocialCategory || view.IsCampusCategory || view.IsNetworkingCategory || view.IsProfessionalCategory {
		t.Fatalf("category flags wrong: %+v", view)
	}

	if _, err := svc.ForEdit("user-X", e.ID); err != ErrNotOrganizer {
		t.Fatalf("non-organizer for-edit err = %v", err)
	}
}

func TestDisplayFormattingIsDeterministic(t *testing.T) {
	date := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

	if got := FormatDate(date); got != "Tuesday, January 1, 2030" {
		t.Fatalf("FormatDate = %q", got)
	}
	if got := FormatTime("14:30"); got != "02:30 PM" {
		t.Fatalf("FormatTime = %q", got)
	}
	if got := FormatTime("09:05"); got != "09:05 AM" {
		t.Fatalf("FormatTime = %q", got)
	}
	// malformed clock falls back to the raw string
	if got := FormatTime("later"); got != "later" {
		t.Fatalf("FormatTime fallback = %q", got)
	}
	// same inputs, same output
	if FormatDate(date) != FormatDate(date) || FormatTime("14:30") != FormatTime("14:30") {
		t.Fatalf("formatting must be deterministic")
	}
}
