package history

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyebreak/eyebreak/internal/engine"
	"github.com/eyebreak/eyebreak/internal/models"
)

type memoryWriter struct {
	events []*models.ReminderEvent
	err    error
}

func (w *memoryWriter) CreateEvent(event *models.ReminderEvent) error {
	if w.err != nil {
		return w.err
	}
	w.events = append(w.events, event)
	return nil
}

func (w *memoryWriter) GetLatestEvent() (*models.ReminderEvent, error) {
	if w.err != nil {
		return nil, w.err
	}
	if len(w.events) == 0 {
		return nil, nil
	}
	return w.events[len(w.events)-1], nil
}

func TestRecorderRotatesCycleAfterRest(t *testing.T) {
	w := &memoryWriter{}
	r := NewRecorder(w)
	n := 0
	r.newID = func() string {
		n++
		return fmt.Sprintf("cycle-%d", n)
	}
	first := r.CycleID()
	assert.Len(t, first, 36, "initial cycle id is a uuid")

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	r.Record(engine.Event{Kind: engine.EventReminder, At: at, RemindersSent: 1, Fullscreen: true})
	r.Record(engine.Event{Kind: engine.EventRestStarted, At: at.Add(time.Minute)})
	r.Record(engine.Event{Kind: engine.EventRestFinished, At: at.Add(6 * time.Minute)})
	r.Record(engine.Event{Kind: engine.EventReminder, At: at.Add(26 * time.Minute), RemindersSent: 2})
	r.Record(engine.Event{Kind: engine.EventRestSkipped, At: at.Add(27 * time.Minute)})

	require.Len(t, w.events, 5)
	assert.Equal(t, first, w.events[0].CycleID)
	assert.Equal(t, first, w.events[2].CycleID)
	assert.Equal(t, "cycle-1", w.events[3].CycleID)
	assert.Equal(t, "cycle-1", w.events[4].CycleID)
	assert.Equal(t, "cycle-2", r.CycleID())

	assert.Equal(t, "reminder", w.events[0].Kind)
	assert.True(t, w.events[0].Fullscreen)
	assert.Equal(t, 1, w.events[0].RemindersSent)
	assert.Equal(t, at, w.events[0].Timestamp)
}

func TestRecorderSwallowsWriteErrors(t *testing.T) {
	w := &memoryWriter{err: errors.New("db gone")}
	r := NewRecorder(w)
	assert.NotPanics(t, func() {
		r.Record(engine.Event{Kind: engine.EventSnoozed, At: time.Now()})
	})
	assert.Empty(t, w.events)
}

func TestRecorderResumesOpenCycleAfterRestart(t *testing.T) {
	w := &memoryWriter{}
	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	before := NewRecorder(w)
	before.Record(engine.Event{Kind: engine.EventRestStarted, At: at})
	started := w.events[0].CycleID

	after := NewRecorder(w)
	assert.Equal(t, started, after.CycleID())
	after.Record(engine.Event{Kind: engine.EventRestFinished, At: at.Add(5 * time.Minute)})
	assert.Equal(t, started, w.events[1].CycleID)

	// A finished cycle is not resumed.
	next := NewRecorder(w)
	assert.NotEqual(t, started, next.CycleID())
}
