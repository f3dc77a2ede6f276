package services

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"winterfell/models"
)

// BuildICS renders one event as an iCalendar document so alumni can pull it
// into their own calendars. The stored HH:MM clock is combined with the
// date; a malformed clock degrades to an all-day entry.
func BuildICS(e *models.Event) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//winterfell//alumni events//EN")

	ev := cal.AddEvent(e.ID)
	now := time.Now().UTC()
	ev.SetCreatedTime(now)
	ev.SetDtStampTime(now)
	ev.SetSummary(e.Title)
	ev.SetDescription(e.Description)
	ev.SetLocation(e.Venue)

	if clock, err := time.Parse(clockLayout, e.Time); err == nil {
		start := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(),
			clock.Hour(), clock.Minute(), 0, 0, time.UTC)
		ev.SetStartAt(start)
		ev.SetEndAt(start.Add(time.Hour))
	} else {
		ev.SetAllDayStartAt(e.Date)
		ev.SetAllDayEndAt(e.Date.AddDate(0, 0, 1))
	}

	return cal.Serialize()
}
