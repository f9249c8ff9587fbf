package calendar

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

const (
	googleCalendarBase = "https://calendar.google.com/calendar/render"
	mapsBase           = "https://maps.google.com/"
	googleDateLayout   = "20060102T150405"
)

// GoogleCalendarURL builds an "add to calendar" link for one event day.
// Times are the event's local wall-clock times, with ctz naming the zone.
func GoogleCalendarURL(event model.Event, info model.EventDay) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", info.Title)
	q.Set("dates", info.Start.Format(googleDateLayout)+"/"+info.End.Format(googleDateLayout))
	if loc := info.Start.Location(); loc != nil && loc.String() != "Local" {
		q.Set("ctz", loc.String())
	}
	q.Set("location", event.Location())
	q.Set("details", info.Description)
	return googleCalendarBase + "?" + q.Encode()
}

// MapsURL returns the configured map link, or a search for the venue address
func MapsURL(event model.Event) string {
	if event.MapsURL != "" {
		return event.MapsURL
	}
	return mapsBase + "?q=" + url.QueryEscape(event.Address)
}

// ShareURL is the address visitors copy to invite friends
func ShareURL(baseURL string) string {
	if baseURL == "" {
		return "/"
	}
	return strings.TrimRight(baseURL, "/") + "/"
}

// ReminderMailto builds a mailto link whose body lists the days signed up for
func ReminderMailto(event model.Event, firstName string, days []model.Day) string {
	var body strings.Builder
	fmt.Fprintf(&body, "Hi %s!\n\nYou signed up to volunteer for the %s:\n\n", firstName, eventTitle(event))
	for _, d := range days {
		info, ok := event.DayInfo(d)
		if !ok {
			continue
		}
		fmt.Fprintf(&body, "📅 %s • %s • %s\n", info.Label, info.TimeLabel, info.Role)
	}
	fmt.Fprintf(&body, "\n📍 %s\n", event.Location())
	if len(event.Reminders) > 0 {
		body.WriteString("\nDon't forget:\n")
		for _, r := range event.Reminders {
			fmt.Fprintf(&body, "- %s\n", r)
		}
	}

	subject := event.Name + " Volunteer Reminder"
	return "mailto:?subject=" + escapeComponent(subject) + "&body=" + escapeComponent(body.String())
}

func eventTitle(event model.Event) string {
	if event.Edition == "" {
		return event.Name
	}
	return event.Name + " " + event.Edition
}

// escapeComponent escapes like a query value but keeps spaces as %20, which mail clients expect
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
