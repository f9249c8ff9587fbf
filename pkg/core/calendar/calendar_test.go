package calendar

import (
	"net/url"
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

func testEvent(t *testing.T) model.Event {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	return model.Event{
		Name:      "Elite Core Cup",
		Edition:   "Mardi Gras 2026",
		Venue:     "Elite Core Gymnastics",
		Address:   "999 W Main St, West Dundee, IL 60118",
		Reminders: []string{"Bring your school's community service form", "Food & beverages provided"},
		Days: []model.EventDay{
			{
				Day:         model.DayThursday,
				Label:       "Thursday, Feb 26",
				TimeLabel:   "5-9 PM",
				Role:        "SETUP",
				Title:       "Elite Core Cup - SETUP Volunteer",
				Description: "Volunteer setup for Elite Core Cup Mardi Gras 2026\n\nBring your school community service form\nFood & beverages provided!",
				Start:       time.Date(2026, 2, 26, 17, 0, 0, 0, loc),
				End:         time.Date(2026, 2, 26, 21, 0, 0, 0, loc),
			},
			{
				Day:       model.DaySunday,
				Label:     "Sunday, Mar 1",
				TimeLabel: "6-9 PM",
				Role:      "TAKEDOWN",
				Title:     "Elite Core Cup - TAKEDOWN Volunteer",
				Start:     time.Date(2026, 3, 1, 18, 0, 0, 0, loc),
				End:       time.Date(2026, 3, 1, 21, 0, 0, 0, loc),
			},
		},
	}
}

func TestGoogleCalendarURL(t *testing.T) {
	ev := testEvent(t)
	info, _ := ev.DayInfo(model.DayThursday)

	raw := GoogleCalendarURL(ev, info)
	require.True(t, strings.HasPrefix(raw, "https://calendar.google.com/calendar/render?"))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "Elite Core Cup - SETUP Volunteer", q.Get("text"))
	assert.Equal(t, "20260226T170000/20260226T210000", q.Get("dates"))
	assert.Equal(t, "America/Chicago", q.Get("ctz"))
	assert.Equal(t, "Elite Core Gymnastics, 999 W Main St, West Dundee, IL 60118", q.Get("location"))
	assert.Equal(t, info.Description, q.Get("details"))
}

func TestMapsURL(t *testing.T) {
	ev := testEvent(t)
	assert.Equal(t, "https://maps.google.com/?q=999+W+Main+St%2C+West+Dundee%2C+IL+60118", MapsURL(ev))

	ev.MapsURL = "https://maps.google.com/?q=999+W+Main+St,+West+Dundee,+IL+60118"
	assert.Equal(t, ev.MapsURL, MapsURL(ev))
}

func TestShareURL(t *testing.T) {
	assert.Equal(t, "https://volunteer.example.com/", ShareURL("https://volunteer.example.com"))
	assert.Equal(t, "https://volunteer.example.com/", ShareURL("https://volunteer.example.com/"))
	assert.Equal(t, "/", ShareURL(""))
}

func TestReminderMailto(t *testing.T) {
	ev := testEvent(t)

	raw := ReminderMailto(ev, "Alex", []model.Day{model.DaySunday})
	require.True(t, strings.HasPrefix(raw, "mailto:?subject=Elite%20Core%20Cup%20Volunteer%20Reminder&body="))
	assert.NotContains(t, raw, "+")

	u, err := url.Parse(raw)
	require.NoError(t, err)
	body := u.Query().Get("body")

	assert.Contains(t, body, "Hi Alex!")
	assert.Contains(t, body, "Elite Core Cup Mardi Gras 2026")
	assert.Contains(t, body, "📅 Sunday, Mar 1 • 6-9 PM • TAKEDOWN")
	assert.NotContains(t, body, "Thursday")
	assert.Contains(t, body, "📍 Elite Core Gymnastics, 999 W Main St, West Dundee, IL 60118")
	assert.Contains(t, body, "- Food & beverages provided")
}

// unfold joins folded content lines back together
func unfold(out string) string {
	return strings.ReplaceAll(out, "\r\n ", "")
}

func TestICS(t *testing.T) {
	ev := testEvent(t)
	info, _ := ev.DayInfo(model.DayThursday)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)

	out := string(ICS(ev, info, "abc-123@cup", now))

	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR\r\n"))
	assert.True(t, strings.HasSuffix(out, "END:VCALENDAR\r\n"))
	assert.Contains(t, out, "VERSION:2.0\r\n")
	assert.Contains(t, out, "METHOD:PUBLISH\r\n")
	assert.Contains(t, out, "BEGIN:VEVENT\r\n")

	flat := unfold(out)
	assert.Contains(t, flat, "UID:abc-123@cup\r\n")
	assert.Contains(t, flat, "DTSTAMP:20260210T120000Z\r\n")
	// 5 PM CST is 23:00 UTC
	assert.Contains(t, flat, "DTSTART:20260226T230000Z\r\n")
	assert.Contains(t, flat, "DTEND:20260227T030000Z\r\n")
	assert.Contains(t, flat, "SUMMARY:Elite Core Cup - SETUP Volunteer\r\n")
	assert.Contains(t, flat, `LOCATION:Elite Core Gymnastics\, 999 W Main St\, West Dundee\, IL 60118`)
	assert.Contains(t, flat, `DESCRIPTION:Volunteer setup for Elite Core Cup Mardi Gras 2026\n\nBring your school community service form\nFood & beverages provided!`)
}

func TestICS_FoldsLongLines(t *testing.T) {
	ev := testEvent(t)
	info, _ := ev.DayInfo(model.DaySunday)
	info.Description = strings.Repeat("Bring gloves and a water bottle. ", 12)

	out := string(ICS(ev, info, EventUID(info), time.Now()))

	for _, l := range strings.Split(strings.TrimSuffix(out, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(l), 75, l)
	}
	assert.Contains(t, unfold(out), "DESCRIPTION:"+strings.TrimSpace(info.Description))
	assert.NotContains(t, out, "DESCRIPTION:\r\n")
}

func TestICS_NoDescription(t *testing.T) {
	ev := testEvent(t)
	info, _ := ev.DayInfo(model.DaySunday)

	out := string(ICS(ev, info, EventUID(info), time.Now()))
	assert.NotContains(t, out, "DESCRIPTION")
	assert.Contains(t, unfold(out), "UID:sunday-1772409600@cup-volunteers\r\n")
}

func TestFileName(t *testing.T) {
	ev := testEvent(t)
	info, _ := ev.DayInfo(model.DaySunday)
	assert.Equal(t, "elite-core-cup-takedown.ics", FileName(ev, info))
}

func TestEventUID(t *testing.T) {
	ev := testEvent(t)
	info, _ := ev.DayInfo(model.DaySunday)
	assert.Equal(t, "sunday-1772409600@cup-volunteers", EventUID(info))
}
