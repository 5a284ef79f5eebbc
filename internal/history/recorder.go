// Package history records engine events so reports can be built later.
package history

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/eyebreak/eyebreak/internal/engine"
	"github.com/eyebreak/eyebreak/internal/models"
)

// EventWriter is the part of the repository the recorder needs.
type EventWriter interface {
	CreateEvent(event *models.ReminderEvent) error
	GetLatestEvent() (*models.ReminderEvent, error)
}

// Recorder implements engine.Recorder. Events between two completed rests
// share a cycle id.
type Recorder struct {
	mu      sync.Mutex
	repo    EventWriter
	cycleID string
	newID   func() string
}

// NewRecorder continues the cycle of the latest stored event when that cycle
// has not ended, so a restart mid-break keeps the break's events together.
func NewRecorder(repo EventWriter) *Recorder {
	r := &Recorder{
		repo:  repo,
		newID: uuid.NewString,
	}
	r.cycleID = r.resumeCycle()
	return r
}

func (r *Recorder) resumeCycle() string {
	latest, err := r.repo.GetLatestEvent()
	if err != nil {
		log.Printf("Failed to read latest event, starting a new cycle: %v", err)
		return r.newID()
	}
	if latest == nil || latest.CycleID == "" || endsCycle(engine.EventKind(latest.Kind)) {
		return r.newID()
	}
	return latest.CycleID
}

func endsCycle(kind engine.EventKind) bool {
	return kind == engine.EventRestFinished || kind == engine.EventRestSkipped
}

// Record stores ev. Storage errors are logged and dropped; history is never
// allowed to disturb the reminder cycle.
func (r *Recorder) Record(ev engine.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	event := &models.ReminderEvent{
		CycleID:       r.cycleID,
		Kind:          string(ev.Kind),
		Timestamp:     ev.At,
		RemindersSent: ev.RemindersSent,
		Fullscreen:    ev.Fullscreen,
	}
	if err := r.repo.CreateEvent(event); err != nil {
		log.Printf("Failed to record %s event: %v", ev.Kind, err)
	}

	if endsCycle(ev.Kind) {
		r.cycleID = r.newID()
	}
}

// CycleID returns the id the next event will carry.
func (r *Recorder) CycleID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cycleID
}
