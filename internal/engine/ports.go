package engine

import (
	"context"
	"time"
)

// Notification is a background rest reminder offering one action.
type Notification struct {
	Title       string
	Body        string
	ActionLabel string
}

// Notifier delivers background reminders. Delivery is never assumed.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
	ClearAll(ctx context.Context) error
}

// Authorizer is implemented by notifiers that need a one-time permission
// request before they can deliver anything.
type Authorizer interface {
	RequestAuthorization(ctx context.Context) error
}

// Presenter shows and hides the full-screen overlays. Callbacks must be
// invoked on the same serialized context that drives the engine (see Runner.Do).
type Presenter interface {
	ShowPrompt(onConfirm, onLater func())
	ShowBreakCountdown(onExit func())
	Hide()
}

// FullscreenProbe answers whether the foreground application is itself
// full-screen. An error means the answer is unavailable.
type FullscreenProbe interface {
	IsForegroundFullscreen() (bool, error)
}

// Store is the typed key-value persistence the engine reads at startup and
// writes after every state change. Setters buffer; Flush writes through.
type Store interface {
	Float(key string) (float64, bool)
	Int(key string) (int, bool)
	Bool(key string) (bool, bool)
	String(key string) (string, bool)
	Time(key string) (time.Time, bool)

	SetFloat(key string, v float64)
	SetInt(key string, v int)
	SetBool(key string, v bool)
	SetString(key string, v string)
	SetTime(key string, v time.Time)
	Remove(key string)

	Flush() error
}

// EventKind names a point in the reminder cycle worth recording.
type EventKind string

const (
	EventReminder     EventKind = "reminder"
	EventRestStarted  EventKind = "rest_started"
	EventRestFinished EventKind = "rest_finished"
	EventRestSkipped  EventKind = "rest_skipped"
	EventSnoozed      EventKind = "snoozed"
)

// Event is emitted to the Recorder after a transition.
type Event struct {
	Kind          EventKind
	At            time.Time
	RemindersSent int
	// Fullscreen is true when the event involved a full-screen overlay.
	Fullscreen bool
}

// Recorder receives engine events, typically for history and reports.
type Recorder interface {
	Record(ev Event)
}

// Deps are the collaborators injected at construction. Nil members fall back
// to no-op implementations; a nil Fullscreen probe means "unavailable".
type Deps struct {
	Now        func() time.Time
	Notifier   Notifier
	Presenter  Presenter
	Fullscreen FullscreenProbe
	Recorder   Recorder

	// Async runs fire-and-forget work. Defaults to a new goroutine.
	Async func(func())
}

type nopNotifier struct{}

func (nopNotifier) Send(context.Context, Notification) error { return nil }
func (nopNotifier) ClearAll(context.Context) error           { return nil }

type nopPresenter struct{}

func (nopPresenter) ShowPrompt(func(), func())  {}
func (nopPresenter) ShowBreakCountdown(func()) {}
func (nopPresenter) Hide()                     {}

type nopRecorder struct{}

func (nopRecorder) Record(Event) {}
