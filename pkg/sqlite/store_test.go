package sqlite

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/cup-volunteers/pkg/core/model"
)

func openTestStore(t *testing.T, path string) *Store {
	t.Helper()
	store, err := Open(t.Context(), path, "elitecore-cup-signups-v3", 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_LoadAbsent(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "cup.db"))

	rec, err := store.Load(t.Context())
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cup.db")
	store := openTestStore(t, path)

	first := model.NewSignupRecord()
	first[model.DayThursday] = []model.VolunteerEntry{
		{Name: "Alex Kim", SignedUpAt: "2026-02-10T15:30:00.250Z", ID: 1770737400250.5},
	}
	require.NoError(t, store.Save(t.Context(), first))

	second := model.NewSignupRecord()
	second[model.DaySunday] = []model.VolunteerEntry{
		{Name: "Jo", SignedUpAt: "2026-02-10T15:31:00.000Z", ID: 1770737460000.25},
	}
	require.NoError(t, store.Save(t.Context(), second))

	// a second handle on the same file sees the last write only
	reopened := openTestStore(t, path)
	rec, err := reopened.Load(t.Context())
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Empty(t, (*rec)[model.DayThursday])
	require.Len(t, (*rec)[model.DaySunday], 1)
	assert.Equal(t, "Jo", (*rec)[model.DaySunday][0].Name)
	assert.Equal(t, model.EntryID(1770737460000.25), (*rec)[model.DaySunday][0].ID)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cup.db")
	store := openTestStore(t, path)
	other, err := Open(t.Context(), path, "other-key", 0)
	require.NoError(t, err)
	defer other.Close()

	require.NoError(t, store.Save(t.Context(), model.NewSignupRecord()))

	rec, err := other.Load(t.Context())
	require.NoError(t, err)
	assert.Nil(t, rec)
}
