package services

import (
	"strings"
	"testing"
	"time"

	"winterfell/models"
)

func TestBuildICS(t *testing.T) {
	e := &models.Event{
		ID:          "e-ics",
		Title:       "Networking Night",
		Description: "Meet fellow alumni",
		Date:        time.Date(2030, time.March, 15, 0, 0, 0, 0, time.UTC),
		Time:        "18:00",
		Category:    models.CategoryNetworking,
		Venue:       "North Tower",
	}

	out := BuildICS(e)
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:Networking Night",
		"LOCATION:North Tower",
		"DTSTART:20300315T180000Z",
		"END:VEVENT",
		"END:VCALENDAR",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("ICS output missing %q:\n%s", want, out)
		}
	}
}

func TestBuildICSMalformedClockFallsBackToAllDay(t *testing.T) {
	e := &models.Event{
		ID:    "e-allday",
		Title: "Homecoming",
		Date:  time.Date(2030, time.March, 15, 0, 0, 0, 0, time.UTC),
		Time:  "evening",
	}

	out := BuildICS(e)
	if !strings.Contains(out, "DTSTART;VALUE=DATE:20300315") {
		t.Fatalf("expected all-day start, got:\n%s", out)
	}
}
