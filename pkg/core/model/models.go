package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Day identifies one of the event's sign-up buckets
type Day string

const (
	DayThursday Day = "thursday"
	DaySunday   Day = "sunday"
)

// AllDays lists the known days in display order
var AllDays = []Day{DayThursday, DaySunday}

func (d Day) IsValid() bool {
	return d == DayThursday || d == DaySunday
}

// ParseDay converts a string into a Day, rejecting anything that is not a known bucket
func ParseDay(s string) (Day, error) {
	d := Day(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("unknown day %q (expected one of %v)", s, AllDays)
	}
	return d, nil
}

// TimestampLayout is the ISO-8601 UTC layout used for signedUpAt
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// FormatTimestamp renders t in the stored signedUpAt format
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// EntryID is the numeric identifier stored with each entry (milliseconds plus a random fraction)
type EntryID float64

func (id EntryID) String() string {
	return strconv.FormatFloat(float64(id), 'f', -1, 64)
}

// ParseEntryID parses the decimal form produced by EntryID.String
func ParseEntryID(s string) (EntryID, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q: %w", s, err)
	}
	return EntryID(f), nil
}

// VolunteerEntry is one person signed up for one day
type VolunteerEntry struct {
	Name       string  `json:"name"`
	SignedUpAt string  `json:"signedUpAt"`
	ID         EntryID `json:"id"`
}

// SignupRecord is the whole shared document: one ordered list of entries per day
type SignupRecord map[Day][]VolunteerEntry

// NewSignupRecord returns a record with every known day present and empty
func NewSignupRecord() SignupRecord {
	rec := make(SignupRecord, len(AllDays))
	for _, d := range AllDays {
		rec[d] = []VolunteerEntry{}
	}
	return rec
}

// Normalize returns a copy containing exactly the known days.
// Missing or null buckets become empty lists and unknown keys are dropped.
func (r SignupRecord) Normalize() SignupRecord {
	out := NewSignupRecord()
	for _, d := range AllDays {
		if entries, ok := r[d]; ok && entries != nil {
			out[d] = append([]VolunteerEntry{}, entries...)
		}
	}
	return out
}

// Clone deep-copies the bucket slices
func (r SignupRecord) Clone() SignupRecord {
	out := make(SignupRecord, len(r))
	for d, entries := range r {
		if entries == nil {
			out[d] = []VolunteerEntry{}
			continue
		}
		out[d] = append([]VolunteerEntry{}, entries...)
	}
	return out
}

// Count returns the number of entries for a day
func (r SignupRecord) Count(d Day) int {
	return len(r[d])
}

// Total returns the number of entries across all days
func (r SignupRecord) Total() int {
	total := 0
	for _, entries := range r {
		total += len(entries)
	}
	return total
}
