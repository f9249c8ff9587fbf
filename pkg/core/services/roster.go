package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/internal/config"
	"github.com/jakechorley/cup-volunteers/pkg/clients/sheetsclient"
	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/db"
)

// RosterDay is one day's volunteers in signup order
type RosterDay struct {
	Day      model.Day
	Info     model.EventDay
	Entries  []model.VolunteerEntry
	Capacity int
}

// Label returns the long day label, falling back to the day key
func (d RosterDay) Label() string {
	if d.Info.Label != "" {
		return d.Info.Label
	}
	return string(d.Day)
}

func (d RosterDay) shortLabel() string {
	if d.Info.ShortLabel != "" {
		return d.Info.ShortLabel
	}
	return d.Label()
}

// Roster is a read-only view of the stored record
type Roster struct {
	Event model.Event
	Days  []RosterDay
}

// Total returns the number of entries across all days
func (r *Roster) Total() int {
	total := 0
	for _, d := range r.Days {
		total += len(d.Entries)
	}
	return total
}

// RosterPublisher defines the sheets operation needed to publish the roster
type RosterPublisher interface {
	PublishRoster(spreadsheetID, tab string, rows []sheetsclient.RosterRow) error
}

// EmailSender defines the email operation needed to send the roster
type EmailSender interface {
	SendEmail(to, subject, body string) error
}

// LoadRoster reads the stored record and arranges it by day.
// Unlike the web session, a failed load is returned as an error.
func LoadRoster(ctx context.Context, store db.RecordStore, event model.Event, capacity int, logger *zap.Logger) (*Roster, error) {
	logger.Debug("Loading roster")

	rec, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load signup record: %w", err)
	}

	record := model.NewSignupRecord()
	if rec != nil {
		record = rec.Normalize()
	} else {
		logger.Info("No signup record stored yet")
	}

	return BuildRoster(event, record, capacity), nil
}

// BuildRoster arranges record into display order
func BuildRoster(event model.Event, record model.SignupRecord, capacity int) *Roster {
	roster := &Roster{Event: event}
	for _, d := range model.AllDays {
		info, _ := event.DayInfo(d)
		roster.Days = append(roster.Days, RosterDay{
			Day:      d,
			Info:     info,
			Entries:  append([]model.VolunteerEntry(nil), record[d]...),
			Capacity: capacity,
		})
	}
	return roster
}

// Rows flattens the roster for the spreadsheet
func (r *Roster) Rows() []sheetsclient.RosterRow {
	var rows []sheetsclient.RosterRow
	for _, d := range r.Days {
		for i, entry := range d.Entries {
			rows = append(rows, sheetsclient.RosterRow{
				Day:        d.shortLabel(),
				Position:   i + 1,
				Name:       entry.Name,
				SignedUpAt: entry.SignedUpAt,
				EntryID:    entry.ID.String(),
			})
		}
	}
	return rows
}

// Text renders the roster as plain text for email and the terminal
func (r *Roster) Text() string {
	var b strings.Builder
	title := r.Event.Name
	if r.Event.Edition != "" {
		title += " " + r.Event.Edition
	}
	fmt.Fprintf(&b, "%s volunteer roster\n", title)

	for _, d := range r.Days {
		b.WriteString("\n")
		header := d.Label()
		if d.Info.TimeLabel != "" {
			header += " • " + d.Info.TimeLabel
		}
		if d.Info.Role != "" {
			header += " • " + d.Info.Role
		}
		fmt.Fprintf(&b, "%s (%d/%d)\n", header, len(d.Entries), d.Capacity)

		if len(d.Entries) == 0 {
			b.WriteString("  No volunteers yet\n")
			continue
		}
		for i, entry := range d.Entries {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, entry.Name)
		}
	}

	if loc := r.Event.Location(); loc != "" {
		fmt.Fprintf(&b, "\n%s\n", loc)
	}
	return b.String()
}

// PublishSignups writes the current roster to the configured spreadsheet tab
func PublishSignups(
	ctx context.Context,
	store db.RecordStore,
	publisher RosterPublisher,
	cfg *config.Config,
	event model.Event,
	logger *zap.Logger,
) (*Roster, error) {
	if cfg.Roster.SpreadsheetID == "" {
		return nil, fmt.Errorf("roster.spreadsheetId is not configured")
	}

	roster, err := LoadRoster(ctx, store, event, cfg.Capacity, logger)
	if err != nil {
		return nil, err
	}

	rows := roster.Rows()
	logger.Debug("Publishing roster",
		zap.String("spreadsheet_id", cfg.Roster.SpreadsheetID),
		zap.String("tab", cfg.Roster.Tab),
		zap.Int("rows", len(rows)))

	if err := publisher.PublishRoster(cfg.Roster.SpreadsheetID, cfg.Roster.Tab, rows); err != nil {
		return nil, fmt.Errorf("failed to publish roster: %w", err)
	}

	logger.Info("Roster published", zap.String("tab", cfg.Roster.Tab), zap.Int("volunteers", len(rows)))
	return roster, nil
}

// EmailRoster sends the current roster as plain text to one recipient
func EmailRoster(
	ctx context.Context,
	store db.RecordStore,
	sender EmailSender,
	event model.Event,
	capacity int,
	to string,
	logger *zap.Logger,
) (*Roster, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, fmt.Errorf("recipient is required")
	}

	roster, err := LoadRoster(ctx, store, event, capacity, logger)
	if err != nil {
		return nil, err
	}

	subject := fmt.Sprintf("%s volunteer roster", event.Name)
	if err := sender.SendEmail(to, subject, roster.Text()); err != nil {
		return nil, fmt.Errorf("failed to email roster: %w", err)
	}

	logger.Info("Roster emailed", zap.String("to", to), zap.Int("volunteers", roster.Total()))
	return roster, nil
}
