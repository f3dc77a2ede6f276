package routes

import (
	"fmt"
	"sort"

	"winterfell/models"
)

// mockUserRepo keeps users in memory and stores passwords as given, so
// VerifyPassword is a plain comparison. staleEmailLookup makes FindByEmail
// miss, simulating a lookup racing a concurrent insert.
type mockUserRepo struct {
	users            map[string]*models.User
	seq              int
	staleEmailLookup bool
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*models.User)}
}

func (m *mockUserRepo) FindByEmail(email string) (*models.User, error) {
	if m.staleEmailLookup {
		return nil, nil
	}
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByID(id string) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserRepo) ListNonAdmin() ([]models.User, error) {
	var out []models.User
	for _, u := range m.users {
		if u.Role != models.RoleAdmin {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockUserRepo) Insert(u *models.User) error {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return models.ErrEmailTaken
		}
	}
	if u.ID == "" {
		m.seq++
		u.ID = fmt.Sprintf("u%d", m.seq)
	}
	if u.Role == "" {
		u.Role = models.RoleAlumni
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockUserRepo) Update(id string, upd models.UserUpdate) error {
	u, ok := m.users[id]
	if !ok {
		return nil
	}
	if upd.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *upd.Email {
				return models.ErrEmailTaken
			}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.GradYear != nil {
		u.GradYear = *upd.GradYear
	}
	if upd.PrefEventCategory != nil {
		u.PrefEventCategory = *upd.PrefEventCategory
	}
	if upd.Country != nil {
		u.Country = *upd.Country
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	return nil
}

func (m *mockUserRepo) Delete(id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) VerifyPassword(candidate, hash string) bool {
	return candidate == hash
}

type mockEventRepo struct {
	events map[string]*models.Event
	seq    int
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*models.Event)}
}

func (m *mockEventRepo) FindUpcoming() ([]models.Event, error) {
	var out []models.Event
	for _, e := range m.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockEventRepo) FindByID(id string) (*models.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (m *mockEventRepo) FindByUser(userID string) ([]models.Event, error) {
	var out []models.Event
	for _, e := range m.events {
		if e.Organizer == userID || e.HasParticipant(userID) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *mockEventRepo) AddParticipant(eventID, userID string) error {
	e, ok := m.events[eventID]
	if !ok {
		return nil
	}
	if !e.HasParticipant(userID) {
		e.Participants = append(e.Participants, userID)
	}
	return nil
}

func (m *mockEventRepo) RemoveParticipant(eventID, userID string) error {
	e, ok := m.events[eventID]
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
	return nil
}

func (m *mockEventRepo) Create(e *models.Event) error {
	if e.ID == "" {
		m.seq++
		e.ID = fmt.Sprintf("e%d", m.seq)
	}
	if e.Participants == nil {
		e.Participants = []string{}
	}
	cp := *e
	m.events[e.ID] = &cp
	return nil
}

func (m *mockEventRepo) Update(id string, upd models.EventUpdate) error {
	e, ok := m.events[id]
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
	return nil
}

func (m *mockEventRepo) Delete(id string) (int64, error) {
	if _, ok := m.events[id]; !ok {
		return 0, nil
	}
	delete(m.events, id)
	return 1, nil
}

func (m *mockEventRepo) CategorizeUpcoming() (models.CategorizedEvents, error) {
	events, err := m.FindUpcoming()
	if err != nil {
		return nil, err
	}
	return models.PartitionByCategory(events), nil
}
