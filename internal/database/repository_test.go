package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyebreak/eyebreak/internal/models"
	"github.com/eyebreak/eyebreak/internal/store"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := Connect(filepath.Join(t.TempDir(), "eyebreak.db"))
	require.NoError(t, err)
	require.NoError(t, db.Initialize())
	t.Cleanup(func() { db.Close() })
	return NewRepository(db)
}

func TestSettingsApplyAndLoad(t *testing.T) {
	repo := newTestRepository(t)

	values, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Empty(t, values)

	require.NoError(t, repo.Apply(map[string]string{"phase": "working", "remindersSent": "1"}, nil))
	require.NoError(t, repo.Apply(map[string]string{"phase": "resting"}, []string{"remindersSent"}))

	values, err = repo.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"phase": "resting"}, values)
}

func TestRepositoryBacksStore(t *testing.T) {
	repo := newTestRepository(t)

	kv, err := store.Open(repo)
	require.NoError(t, err)
	kv.SetFloat("workIntervalMinutes", 25)
	kv.SetTime("breakEndDate", time.Date(2026, 3, 2, 9, 5, 0, 0, time.UTC))
	require.NoError(t, kv.Flush())

	reopened, err := store.Open(repo)
	require.NoError(t, err)
	v, ok := reopened.Float("workIntervalMinutes")
	assert.True(t, ok)
	assert.Equal(t, 25.0, v)
	_, ok = reopened.Time("breakEndDate")
	assert.True(t, ok)
}

func TestEvents(t *testing.T) {
	repo := newTestRepository(t)
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	kinds := []string{"reminder", "rest_started", "rest_finished", "reminder", "snoozed"}
	for i, kind := range kinds {
		require.NoError(t, repo.CreateEvent(&models.ReminderEvent{
			CycleID:   "cycle",
			Kind:      kind,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	events, err := repo.GetEventsBetween(base.Add(time.Minute), base.Add(4*time.Minute))
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "rest_started", events[0].Kind)
	assert.Equal(t, "reminder", events[2].Kind)

	latest, err := repo.GetLatestEvent()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "snoozed", latest.Kind)

	deleted, err := repo.DeleteEventsBefore(base.Add(2 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	events, err = repo.GetEventsBetween(base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Len(t, events, 3)

	require.NoError(t, repo.ClearEvents())
	latest, err = repo.GetLatestEvent()
	require.NoError(t, err)
	assert.Nil(t, latest)
}
