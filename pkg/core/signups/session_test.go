package signups

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
	"github.com/jakechorley/cup-volunteers/pkg/db"
)

var fixedNow = time.Date(2026, 2, 10, 15, 30, 0, 250_000_000, time.UTC)

// sequentialIDs returns ids 1, 2, 3... so tests can address entries directly
func sequentialIDs() func(time.Time) model.EntryID {
	next := 0
	return func(time.Time) model.EntryID {
		next++
		return model.EntryID(next)
	}
}

func newTestSession(t *testing.T, initial *model.SignupRecord) (*Session, *db.MemoryStore) {
	t.Helper()
	store := db.NewMemoryStore(initial)
	s := NewSession(store, zap.NewNop(),
		WithClock(func() time.Time { return fixedNow }),
		WithIDSource(sequentialIDs()),
	)
	s.Initialize(context.Background())
	return s, store
}

func fullDay(n int) []model.VolunteerEntry {
	entries := make([]model.VolunteerEntry, n)
	for i := range entries {
		entries[i] = model.VolunteerEntry{
			Name:       fmt.Sprintf("Volunteer %d", i+1),
			SignedUpAt: "2026-02-01T10:00:00.000Z",
			ID:         model.EntryID(1000 + i),
		}
	}
	return entries
}

// recordingRecorder counts Recorder calls
type recordingRecorder struct {
	signups      map[model.Day]int
	skipped      map[model.Day]int
	saveFailures int
	loads        []string
}

func newRecordingRecorder() *recordingRecorder {
	return &recordingRecorder{signups: map[model.Day]int{}, skipped: map[model.Day]int{}}
}

func (r *recordingRecorder) RecordSignup(d model.Day)      { r.signups[d]++ }
func (r *recordingRecorder) RecordSkippedFull(d model.Day) { r.skipped[d]++ }
func (r *recordingRecorder) RecordSaveFailure()            { r.saveFailures++ }
func (r *recordingRecorder) RecordLoad(outcome string)     { r.loads = append(r.loads, outcome) }

func TestInitialize_AbsentRecordStartsEmpty(t *testing.T) {
	store := db.NewMemoryStore(nil)
	rec := newRecordingRecorder()
	s := NewSession(store, zap.NewNop(), WithRecorder(rec))

	result := s.Initialize(context.Background())

	assert.Equal(t, LoadNotFound, result.Outcome)
	assert.NoError(t, result.Err)
	snap := s.Snapshot()
	assert.Empty(t, snap[model.DayThursday])
	assert.Empty(t, snap[model.DaySunday])
	assert.Equal(t, []string{"not_found"}, rec.loads)
}

func TestInitialize_MissingDayDefaultsOnlyThatDay(t *testing.T) {
	stored := model.SignupRecord{
		model.DaySunday: {{Name: "Sam", SignedUpAt: "2026-02-01T10:00:00.000Z", ID: 7}},
	}
	s, _ := newTestSession(t, &stored)

	snap := s.Snapshot()
	assert.NotNil(t, snap[model.DayThursday])
	assert.Empty(t, snap[model.DayThursday])
	require.Len(t, snap[model.DaySunday], 1)
	assert.Equal(t, "Sam", snap[model.DaySunday][0].Name)
}

func TestInitialize_LoadFailureStartsEmpty(t *testing.T) {
	store := db.NewMemoryStore(nil)
	store.FailLoad(errors.New("network down"))
	s := NewSession(store, zap.NewNop())

	result := s.Initialize(context.Background())

	assert.Equal(t, LoadFailed, result.Outcome)
	assert.EqualError(t, result.Err, "network down")
	assert.Equal(t, 0, s.Snapshot().Total())
}

func TestSubmit_ScenarioSingleDayOnEmptyRecord(t *testing.T) {
	s, store := newTestSession(t, nil)

	result, err := s.Submit(context.Background(), "Alex Kim", []model.Day{model.DayThursday})
	require.NoError(t, err)

	assert.Equal(t, []model.Day{model.DayThursday}, result.Added)
	assert.Empty(t, result.Skipped)
	assert.NoError(t, result.SaveErr)

	snap := s.Snapshot()
	require.Len(t, snap[model.DayThursday], 1)
	assert.Equal(t, "Alex Kim", snap[model.DayThursday][0].Name)
	assert.Equal(t, "2026-02-10T15:30:00.250Z", snap[model.DayThursday][0].SignedUpAt)
	assert.Empty(t, snap[model.DaySunday])

	stored := store.Stored()
	require.NotNil(t, stored)
	assert.Equal(t, snap, *stored)
}

func TestSubmit_ScenarioFullDayIsSkipped(t *testing.T) {
	initial := model.NewSignupRecord()
	initial[model.DayThursday] = fullDay(15)
	s, store := newTestSession(t, &initial)
	rec := newRecordingRecorder()
	s.recorder = rec

	result, err := s.Submit(context.Background(), "Sam", []model.Day{model.DayThursday, model.DaySunday})
	require.NoError(t, err)

	assert.Equal(t, []model.Day{model.DaySunday}, result.Added)
	assert.Equal(t, []model.Day{model.DayThursday}, result.Skipped)

	snap := s.Snapshot()
	assert.Len(t, snap[model.DayThursday], 15)
	require.Len(t, snap[model.DaySunday], 1)
	assert.Equal(t, "Sam", snap[model.DaySunday][0].Name)
	assert.Equal(t, 1, rec.skipped[model.DayThursday])
	assert.Equal(t, 1, rec.signups[model.DaySunday])

	_, saves := store.Calls()
	assert.Equal(t, 1, saves)
}

func TestSubmit_BothDaysShareTimestampWithDistinctIDs(t *testing.T) {
	s, _ := newTestSession(t, nil)

	result, err := s.Submit(context.Background(), "  Jordan Lee ", []model.Day{model.DaySunday, model.DayThursday, model.DaySunday})
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, []model.Day{model.DayThursday, model.DaySunday}, result.Added)
	assert.Equal(t, "Jordan Lee", result.Entries[0].Name)
	assert.Equal(t, result.Entries[0].SignedUpAt, result.Entries[1].SignedUpAt)
	assert.NotEqual(t, result.Entries[0].ID, result.Entries[1].ID)
}

func TestSubmit_NoDaysSelectedDoesNotMutate(t *testing.T) {
	s, store := newTestSession(t, nil)

	result, err := s.Submit(context.Background(), "Alex", nil)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNoDaySelected)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 0, s.Snapshot().Total())
	_, saves := store.Calls()
	assert.Equal(t, 0, saves)
}

func TestSubmit_NoDaysCheckedBeforeName(t *testing.T) {
	s, _ := newTestSession(t, nil)

	_, err := s.Submit(context.Background(), "", []model.Day{})
	assert.ErrorIs(t, err, ErrNoDaySelected)
}

func TestSubmit_BlankNameDoesNotMutate(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		s, store := newTestSession(t, nil)

		result, err := s.Submit(context.Background(), name, []model.Day{model.DayThursday})

		assert.Nil(t, result)
		assert.ErrorIs(t, err, ErrNameRequired)
		assert.Equal(t, "Please enter your name to sign up", err.Error())
		assert.Equal(t, 0, s.Snapshot().Total())
		_, saves := store.Calls()
		assert.Equal(t, 0, saves)
	}
}

func TestSubmit_UnknownDaysAreIgnored(t *testing.T) {
	s, _ := newTestSession(t, nil)

	_, err := s.Submit(context.Background(), "Alex", []model.Day{"saturday"})
	assert.ErrorIs(t, err, ErrNoDaySelected)
}

func TestSubmit_SaveFailureStillSucceeds(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	store := db.NewMemoryStore(nil)
	rec := newRecordingRecorder()
	s := NewSession(store, zap.New(core), WithRecorder(rec))
	s.Initialize(context.Background())
	store.FailSave(errors.New("permission denied"))

	result, err := s.Submit(context.Background(), "Alex", []model.Day{model.DayThursday})

	require.NoError(t, err)
	assert.Equal(t, []model.Day{model.DayThursday}, result.Added)
	assert.ErrorContains(t, result.SaveErr, "permission denied")
	assert.Equal(t, 1, s.Occupancy(model.DayThursday))
	assert.Nil(t, store.Stored())
	assert.Equal(t, 1, rec.saveFailures)
	assert.Equal(t, 1, logs.FilterMessage("Failed to save signup record").Len())
}

func TestSubmit_SaveIgnoresCancelledContext(t *testing.T) {
	s, store := newTestSession(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Submit(ctx, "Alex", []model.Day{model.DaySunday})
	require.NoError(t, err)
	assert.NoError(t, result.SaveErr)
	assert.NotNil(t, store.Stored())
}

func TestSubmit_CapacityNeverExceeded(t *testing.T) {
	s, _ := newTestSession(t, nil)

	for i := 0; i < 20; i++ {
		_, err := s.Submit(context.Background(), fmt.Sprintf("Person %d", i), []model.Day{model.DayThursday, model.DaySunday})
		require.NoError(t, err)
	}

	assert.Equal(t, DefaultCapacity, s.Occupancy(model.DayThursday))
	assert.Equal(t, DefaultCapacity, s.Occupancy(model.DaySunday))
	assert.False(t, s.HasCapacity(model.DayThursday))
}

func TestWithCapacity(t *testing.T) {
	store := db.NewMemoryStore(nil)
	s := NewSession(store, zap.NewNop(), WithCapacity(2))

	for i := 0; i < 3; i++ {
		_, err := s.Submit(context.Background(), "P", []model.Day{model.DaySunday})
		require.NoError(t, err)
	}

	assert.Equal(t, 2, s.Capacity())
	assert.Equal(t, 2, s.Occupancy(model.DaySunday))
}

func TestRemoveVolunteer_RemovesOnlyMatchingEntryFromThatDay(t *testing.T) {
	initial := model.NewSignupRecord()
	initial[model.DayThursday] = []model.VolunteerEntry{{Name: "A", ID: 1}, {Name: "B", ID: 2}, {Name: "C", ID: 3}}
	initial[model.DaySunday] = []model.VolunteerEntry{{Name: "B", ID: 2}}
	s, store := newTestSession(t, &initial)

	result, err := s.RemoveVolunteer(context.Background(), model.DayThursday, 2)
	require.NoError(t, err)
	assert.True(t, result.Removed)

	snap := s.Snapshot()
	assert.Equal(t, []model.VolunteerEntry{{Name: "A", ID: 1}, {Name: "C", ID: 3}}, snap[model.DayThursday])
	assert.Equal(t, []model.VolunteerEntry{{Name: "B", ID: 2}}, snap[model.DaySunday])
	assert.Equal(t, snap, *store.Stored())
}

func TestRemoveVolunteer_UnknownIDIsNoOpButStillSaves(t *testing.T) {
	initial := model.NewSignupRecord()
	initial[model.DaySunday] = []model.VolunteerEntry{{Name: "A", ID: 1}}
	s, store := newTestSession(t, &initial)

	result, err := s.RemoveVolunteer(context.Background(), model.DaySunday, 99)
	require.NoError(t, err)
	assert.False(t, result.Removed)
	assert.Equal(t, 1, s.Occupancy(model.DaySunday))

	_, saves := store.Calls()
	assert.Equal(t, 1, saves)
}

func TestRemoveVolunteer_UnknownDay(t *testing.T) {
	s, _ := newTestSession(t, nil)

	_, err := s.RemoveVolunteer(context.Background(), "friday", 1)
	assert.ErrorIs(t, err, ErrUnknownDay)
}

func TestClearAll_EmptiesEveryDay(t *testing.T) {
	initial := model.NewSignupRecord()
	initial[model.DayThursday] = fullDay(15)
	initial[model.DaySunday] = fullDay(3)
	s, store := newTestSession(t, &initial)

	result := s.ClearAll(context.Background())

	assert.True(t, result.Removed)
	assert.NoError(t, result.SaveErr)
	assert.Equal(t, model.NewSignupRecord(), s.Snapshot())
	assert.Equal(t, model.NewSignupRecord(), *store.Stored())

	again := s.ClearAll(context.Background())
	assert.False(t, again.Removed)
	assert.Equal(t, 0, s.Snapshot().Total())
}

func TestSelectDays(t *testing.T) {
	initial := model.NewSignupRecord()
	initial[model.DayThursday] = fullDay(15)
	s, _ := newTestSession(t, &initial)

	sel := s.SelectDays(nil, model.DaySunday)
	assert.Equal(t, Selection{model.DaySunday}, sel)

	// full day cannot be added
	sel = s.SelectDays(sel, model.DayThursday)
	assert.Equal(t, Selection{model.DaySunday}, sel)

	// toggling a selected day removes it
	sel = s.SelectDays(sel, model.DaySunday)
	assert.Empty(t, sel)

	// unknown days are ignored
	sel = s.SelectDays(sel, "monday")
	assert.Empty(t, sel)
}

func TestSelectDays_DeselectAfterDayFills(t *testing.T) {
	s, _ := newTestSession(t, nil)
	sel := s.SelectDays(nil, model.DayThursday)

	for i := 0; i < DefaultCapacity; i++ {
		_, err := s.Submit(context.Background(), "P", []model.Day{model.DayThursday})
		require.NoError(t, err)
	}

	sel = s.SelectDays(sel, model.DayThursday)
	assert.Empty(t, sel)
}

func TestCounts(t *testing.T) {
	initial := model.NewSignupRecord()
	initial[model.DayThursday] = fullDay(15)
	initial[model.DaySunday] = fullDay(4)
	s, _ := newTestSession(t, &initial)

	counts := s.Counts()
	require.Len(t, counts, 2)
	assert.Equal(t, model.DayThursday, counts[0].Day)
	assert.True(t, counts[0].Full())
	assert.Equal(t, 0, counts[0].Remaining())
	assert.Equal(t, 11, counts[1].Remaining())
}

func TestNewEntryID(t *testing.T) {
	ts := time.UnixMilli(1772132400000)
	id := NewEntryID(ts)
	assert.GreaterOrEqual(t, float64(id), 1772132400000.0)
	assert.Less(t, float64(id), 1772132400001.0)
}
