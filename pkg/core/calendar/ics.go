package calendar

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

const productService = "cup-volunteers"

// ICS renders a single-event iCalendar file (RFC 5545) for one event day
func ICS(event model.Event, info model.EventDay, uid string, now time.Time) []byte {
	cal := ics.NewCalendarFor(productService)
	cal.SetMethod(ics.MethodPublish)

	vevent := cal.AddEvent(uid)
	vevent.SetDtStampTime(now)
	vevent.SetStartAt(info.Start)
	vevent.SetEndAt(info.End)
	vevent.SetSummary(info.Title)
	vevent.SetLocation(event.Location())
	if info.Description != "" {
		vevent.SetDescription(info.Description)
	}

	return []byte(cal.Serialize())
}

// EventUID is stable for a day so re-downloading the file updates the same calendar entry
func EventUID(info model.EventDay) string {
	return fmt.Sprintf("%s-%d@cup-volunteers", info.Day, info.Start.Unix())
}

// FileName is the download name for a day's calendar file
func FileName(event model.Event, info model.EventDay) string {
	name := strings.ToLower(strings.Join(strings.Fields(event.Name+" "+info.Role), "-"))
	return name + ".ics"
}
