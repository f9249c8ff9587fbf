package signups

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/db"
)

// DefaultCapacity is the maximum number of volunteers per day
const DefaultCapacity = 15

// LoadOutcome tags the result of reading the shared record at startup
type LoadOutcome string

const (
	LoadFound    LoadOutcome = "found"
	LoadNotFound LoadOutcome = "not_found"
	LoadFailed   LoadOutcome = "failed"
)

// LoadResult describes how Initialize seeded the session
type LoadResult struct {
	Outcome LoadOutcome
	Err     error
}

// Recorder receives counters for signup activity
type Recorder interface {
	RecordSignup(day model.Day)
	RecordSkippedFull(day model.Day)
	RecordSaveFailure()
	RecordLoad(outcome string)
}

type noopRecorder struct{}

func (noopRecorder) RecordSignup(model.Day)      {}
func (noopRecorder) RecordSkippedFull(model.Day) {}
func (noopRecorder) RecordSaveFailure()          {}
func (noopRecorder) RecordLoad(string)           {}

// SubmitResult reports what a submission changed
type SubmitResult struct {
	Name       string
	SignedUpAt string
	Added      []model.Day
	Skipped    []model.Day // days that were already full
	Entries    []model.VolunteerEntry
	SaveErr    error // remote overwrite failure; the in-memory state keeps the entries regardless
}

// MutationResult reports the outcome of an admin change
type MutationResult struct {
	Removed bool
	SaveErr error
}

// DayCount is the occupancy of one day
type DayCount struct {
	Day      model.Day
	Occupied int
	Capacity int
}

func (c DayCount) Remaining() int {
	if c.Occupied >= c.Capacity {
		return 0
	}
	return c.Capacity - c.Occupied
}

func (c DayCount) Full() bool {
	return c.Occupied >= c.Capacity
}

// Session owns the in-memory copy of the shared record.
// Every mutation updates memory first and then overwrites the remote record with the whole state.
type Session struct {
	mu       sync.Mutex
	record   model.SignupRecord
	capacity int
	store    db.RecordStore
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
	newID    func(time.Time) model.EntryID
}

// Option configures a Session
type Option func(*Session)

func WithCapacity(capacity int) Option {
	return func(s *Session) {
		if capacity > 0 {
			s.capacity = capacity
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func WithIDSource(newID func(time.Time) model.EntryID) Option {
	return func(s *Session) { s.newID = newID }
}

func WithRecorder(r Recorder) Option {
	return func(s *Session) {
		if r != nil {
			s.recorder = r
		}
	}
}

// NewSession creates a session with an empty record; call Initialize to load the stored one
func NewSession(store db.RecordStore, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		record:   model.NewSignupRecord(),
		capacity: DefaultCapacity,
		store:    store,
		logger:   logger,
		recorder: noopRecorder{},
		now:      time.Now,
		newID:    NewEntryID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewEntryID derives an id from the submission time plus a random fraction.
// Collisions are unlikely but not impossible.
func NewEntryID(t time.Time) model.EntryID {
	return model.EntryID(float64(t.UnixMilli()) + rand.Float64())
}

// Initialize replaces the in-memory record with the stored one.
// A missing record or a failed load leaves every day empty.
func (s *Session) Initialize(ctx context.Context) LoadResult {
	s.logger.Debug("Loading signup record")

	rec, err := s.store.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	var result LoadResult
	switch {
	case err != nil:
		s.logger.Warn("Failed to load signup record, starting empty", zap.Error(err))
		s.record = model.NewSignupRecord()
		result = LoadResult{Outcome: LoadFailed, Err: err}
	case rec == nil:
		s.logger.Info("No signup record stored yet, starting empty")
		s.record = model.NewSignupRecord()
		result = LoadResult{Outcome: LoadNotFound}
	default:
		s.record = rec.Normalize()
		s.logger.Info("Signup record loaded",
			zap.Int("thursday", s.record.Count(model.DayThursday)),
			zap.Int("sunday", s.record.Count(model.DaySunday)))
		result = LoadResult{Outcome: LoadFound}
	}

	s.recorder.RecordLoad(string(result.Outcome))
	return result
}

// Capacity returns the per-day limit
func (s *Session) Capacity() int {
	return s.capacity
}

// Snapshot returns a deep copy of the current record
func (s *Session) Snapshot() model.SignupRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Clone()
}

// Occupancy returns how many volunteers are signed up for day
func (s *Session) Occupancy(day model.Day) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record.Count(day)
}

// HasCapacity reports whether day can take another volunteer
func (s *Session) HasCapacity(day model.Day) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasCapacityLocked(day)
}

func (s *Session) hasCapacityLocked(day model.Day) bool {
	return s.record.Count(day) < s.capacity
}

// Counts returns the occupancy of every day in display order
func (s *Session) Counts() []DayCount {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make([]DayCount, 0, len(model.AllDays))
	for _, d := range model.AllDays {
		counts = append(counts, DayCount{Day: d, Occupied: s.record.Count(d), Capacity: s.capacity})
	}
	return counts
}

// SelectDays toggles each requested day in current.
// Deselecting always succeeds; selecting a full day is ignored.
func (s *Session) SelectDays(current Selection, requested ...model.Day) Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := NewSelection(current.Days()...)
	for _, d := range requested {
		if !d.IsValid() {
			continue
		}
		if next.Has(d) {
			next = next.without(d)
			continue
		}
		if s.hasCapacityLocked(d) {
			next = next.with(d)
		}
	}
	return next
}

// Submit signs name up for every requested day that still has room.
// Full days are skipped without error. The returned error is only ever a *ValidationError,
// and in that case nothing has changed.
func (s *Session) Submit(ctx context.Context, name string, days []model.Day) (*SubmitResult, error) {
	requested := NewSelection(days...)
	if requested.Len() == 0 {
		return nil, ErrNoDaySelected
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	result := &SubmitResult{
		Name:       trimmed,
		SignedUpAt: model.FormatTimestamp(now),
	}

	next := s.record.Clone()
	for _, d := range requested {
		if next.Count(d) >= s.capacity {
			result.Skipped = append(result.Skipped, d)
			s.recorder.RecordSkippedFull(d)
			s.logger.Info("Day is full, skipping", zap.String("day", string(d)), zap.String("name", trimmed))
			continue
		}

		entry := model.VolunteerEntry{
			Name:       trimmed,
			SignedUpAt: result.SignedUpAt,
			ID:         s.newID(now),
		}
		next[d] = append(next[d], entry)
		result.Added = append(result.Added, d)
		result.Entries = append(result.Entries, entry)
		s.recorder.RecordSignup(d)
	}
	s.record = next

	s.logger.Info("Volunteer signed up",
		zap.String("name", trimmed),
		zap.Any("added", result.Added),
		zap.Any("skipped", result.Skipped))

	result.SaveErr = s.persistLocked(ctx)
	return result, nil
}

// RemoveVolunteer deletes the first entry with id from day.
// An unknown id changes nothing, but the record is still written back.
func (s *Session) RemoveVolunteer(ctx context.Context, day model.Day, id model.EntryID) (*MutationResult, error) {
	if !day.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDay, day)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.record.Clone()
	result := &MutationResult{}
	entries := next[day]
	for i, entry := range entries {
		if entry.ID == id {
			next[day] = append(entries[:i:i], entries[i+1:]...)
			result.Removed = true
			s.logger.Info("Volunteer removed",
				zap.String("day", string(day)),
				zap.String("name", entry.Name),
				zap.String("id", id.String()))
			break
		}
	}
	if !result.Removed {
		s.logger.Info("No volunteer with id", zap.String("day", string(day)), zap.String("id", id.String()))
	}
	s.record = next

	result.SaveErr = s.persistLocked(ctx)
	return result, nil
}

// ClearAll empties every day and writes the empty record back
func (s *Session) ClearAll(ctx context.Context) *MutationResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.record.Total()
	s.record = model.NewSignupRecord()
	s.logger.Info("All signups cleared", zap.Int("removed", removed))

	return &MutationResult{Removed: removed > 0, SaveErr: s.persistLocked(ctx)}
}

// persistLocked overwrites the remote record with the current state.
// Failures are logged and returned for reporting only; memory is never rolled back.
func (s *Session) persistLocked(ctx context.Context) error {
	err := s.store.Save(context.WithoutCancel(ctx), s.record.Clone())
	if err != nil {
		s.recorder.RecordSaveFailure()
		s.logger.Error("Failed to save signup record", zap.Error(err))
		return fmt.Errorf("failed to save signup record: %w", err)
	}
	s.logger.Debug("Signup record saved", zap.Int("total", s.record.Total()))
	return nil
}

// IsValidationError reports whether err came from submission validation
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
