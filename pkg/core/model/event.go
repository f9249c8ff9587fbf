package model

import "time"

// EventDay describes the shift behind one sign-up bucket
type EventDay struct {
	Day         Day
	Label       string // "Thursday, Feb 26"
	ShortLabel  string // "Thu, Feb 26"
	TimeLabel   string // "5-9 PM"
	Role        string // "SETUP"
	Summary     string // shown under the day card
	Title       string // calendar entry title
	Description string // calendar entry details
	Start       time.Time
	End         time.Time
}

// Event holds the fixed parameters of the event volunteers are signing up for
type Event struct {
	Name      string
	Edition   string
	Venue     string
	Address   string
	MapsURL   string
	Reminders []string
	Notes     string // markdown shown on the page
	Days      []EventDay
}

// DayInfo returns the EventDay for d
func (e Event) DayInfo(d Day) (EventDay, bool) {
	for _, info := range e.Days {
		if info.Day == d {
			return info, true
		}
	}
	return EventDay{}, false
}

// Location is the venue name followed by its street address
func (e Event) Location() string {
	if e.Venue == "" {
		return e.Address
	}
	if e.Address == "" {
		return e.Venue
	}
	return e.Venue + ", " + e.Address
}
