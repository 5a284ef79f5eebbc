package overlay

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyebreak/eyebreak/internal/engine"
	"github.com/eyebreak/eyebreak/internal/store"
)

func TestRelayAnswersMatchKind(t *testing.T) {
	r := NewRelay()
	assert.Equal(t, KindNone, r.Kind())
	assert.ErrorIs(t, r.Confirm(), ErrNoOverlay)

	confirmed := false
	r.ShowPrompt(func() { confirmed = true }, func() {})
	assert.Equal(t, KindPrompt, r.Kind())
	assert.ErrorIs(t, r.Exit(), ErrNoOverlay)

	require.NoError(t, r.Confirm())
	assert.True(t, confirmed)

	r.Hide()
	assert.Equal(t, KindNone, r.Kind())
	assert.ErrorIs(t, r.Later(), ErrNoOverlay)
}

// The relay drives a real engine through a full prompt, rest and exit.
func TestRelayWithEngine(t *testing.T) {
	kv, err := store.Open(store.NewMemory())
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	relay := NewRelay()
	e := engine.New(kv, engine.Deps{
		Now:        func() time.Time { return now },
		Presenter:  relay,
		Fullscreen: notFullscreen{},
		Async:      func(f func()) { f() },
	})
	e.SetWorkInterval(1)
	e.StartTimer()

	for i := 0; i < 60; i++ {
		e.Tick()
	}
	require.Equal(t, KindPrompt, relay.Kind())
	assert.True(t, e.Snapshot().IsFullscreenReminderVisible)

	require.NoError(t, relay.Confirm())
	assert.Equal(t, KindBreakCountdown, relay.Kind())
	assert.Equal(t, engine.PhaseResting, e.Snapshot().Phase)

	require.NoError(t, relay.Exit())
	assert.Equal(t, KindNone, relay.Kind())
	assert.Equal(t, engine.PhaseResting, e.Snapshot().Phase, "exiting the overlay keeps the break running")
	assert.Equal(t, 2, relay.Shown())
}

func TestRelayLaterSnoozes(t *testing.T) {
	kv, err := store.Open(store.NewMemory())
	require.NoError(t, err)

	relay := NewRelay()
	e := engine.New(kv, engine.Deps{
		Presenter:  relay,
		Fullscreen: notFullscreen{},
		Async:      func(f func()) { f() },
	})
	e.SetWorkInterval(0.5)
	for i := 0; i < 30; i++ {
		e.Tick()
	}
	require.Equal(t, KindPrompt, relay.Kind())

	require.NoError(t, relay.Later())
	s := e.Snapshot()
	assert.Equal(t, KindNone, relay.Kind())
	assert.True(t, s.WaitingForRestConfirmation)
	assert.False(t, s.IsFullscreenReminderVisible)
	assert.Equal(t, engine.ReminderRepeatSeconds, s.SecondsUntilNextReminder)
}

type notFullscreen struct{}

func (notFullscreen) IsForegroundFullscreen() (bool, error) { return false, nil }

// announcements records what the relay put on the desktop.
type announcements struct {
	mu      sync.Mutex
	sent    []engine.Notification
	cleared int
}

func (a *announcements) Send(_ context.Context, n engine.Notification) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sent = append(a.sent, n)
	return nil
}

func (a *announcements) ClearAll(context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cleared++
	return nil
}

// A reminder for a windowed foreground must reach the desktop even when no
// UI client polls the API.
func TestRelayAnnouncesWindowedReminder(t *testing.T) {
	kv, err := store.Open(store.NewMemory())
	require.NoError(t, err)

	ann := &announcements{}
	relay := NewRelay()
	relay.Announce(ann)

	e := engine.New(kv, engine.Deps{
		Presenter:  relay,
		Fullscreen: notFullscreen{},
		Async:      func(f func()) { f() },
	})
	e.SetWorkInterval(1)
	e.StartTimer()
	for i := 0; i < 60; i++ {
		e.Tick()
	}

	require.Equal(t, KindPrompt, relay.Kind())
	require.Len(t, ann.sent, 1)
	assert.Equal(t, "Rest Now", ann.sent[0].ActionLabel)
	assert.Equal(t, 1, e.Snapshot().RemindersSent)

	// The desktop action answers the prompt like the API would.
	require.NoError(t, relay.Confirm())
	require.Len(t, ann.sent, 2)
	assert.Empty(t, ann.sent[1].ActionLabel)
	assert.Equal(t, engine.PhaseResting, e.Snapshot().Phase)

	cleared := ann.cleared
	require.NoError(t, relay.Exit())
	assert.Greater(t, ann.cleared, cleared, "hiding the overlay clears its notification")
	assert.Len(t, ann.sent, 2)
}

func TestRelayWithoutAnnouncer(t *testing.T) {
	r := NewRelay()
	r.ShowPrompt(func() {}, func() {})
	r.ShowBreakCountdown(func() {})
	r.Hide()
	assert.Equal(t, 2, r.Shown())
}
