// Package engine implements the reminder state machine: work countdown,
// break countdown, repeat reminders, screen-lock pausing and the
// persistence and startup reconciliation of all of it.
//
// An Engine is not safe for concurrent use. Drive it from a single goroutine,
// or through a Runner which serializes ticks and external actions.
package engine

import (
	"context"
	"sync"
	"time"
)

// Engine is the clocked reminder state machine.
type Engine struct {
	s Session

	store      Store
	now        func() time.Time
	notifier   Notifier
	presenter  Presenter
	fullscreen FullscreenProbe
	recorder   Recorder
	async      func(func())

	authRequested bool
	status        statusLine
}

// New loads the session from store (defaults for absent keys), reconciles it
// against the current time and persists the result.
func New(store Store, deps Deps) *Engine {
	e := &Engine{
		store:      store,
		now:        deps.Now,
		notifier:   deps.Notifier,
		presenter:  deps.Presenter,
		fullscreen: deps.Fullscreen,
		recorder:   deps.Recorder,
		async:      deps.Async,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.notifier == nil {
		e.notifier = nopNotifier{}
	}
	if e.presenter == nil {
		e.presenter = nopPresenter{}
	}
	if e.recorder == nil {
		e.recorder = nopRecorder{}
	}
	if e.async == nil {
		e.async = func(f func()) { go f() }
	}

	e.load()
	e.Reconcile()
	return e
}

// Snapshot returns a copy of the current session.
func (e *Engine) Snapshot() Session {
	s := e.s
	if s.BreakEndDate != nil {
		end := *s.BreakEndDate
		s.BreakEndDate = &end
	}
	return s
}

// HasStartedTimer reports whether the timer was ever started; launchers use
// it to decide whether to resume ticking automatically.
func (e *Engine) HasStartedTimer() bool {
	return e.s.HasStartedTimer
}

// StartTimer marks the timer as started and, on the first start, asks the
// notifier for permission to deliver reminders.
func (e *Engine) StartTimer() {
	if !e.s.HasStartedTimer {
		e.s.HasStartedTimer = true
	}
	e.requestNotificationAuthorization()
	e.persist()
}

// NotificationStatus is a human-readable line describing the last
// notification outcome. It never affects session state.
func (e *Engine) NotificationStatus() string {
	return e.status.get()
}

func (e *Engine) requestNotificationAuthorization() {
	if e.authRequested {
		return
	}
	auth, ok := e.notifier.(Authorizer)
	if !ok {
		return
	}
	e.authRequested = true
	e.async(func() {
		if err := auth.RequestAuthorization(context.Background()); err != nil {
			e.status.set("Notifications unavailable: " + err.Error())
			return
		}
		e.status.set("Notifications enabled")
	})
}

func (e *Engine) record(kind EventKind, fullscreen bool) {
	e.recorder.Record(Event{
		Kind:          kind,
		At:            e.now(),
		RemindersSent: e.s.RemindersSent,
		Fullscreen:    fullscreen,
	})
}

// statusLine is written from notifier goroutines and read by display code.
type statusLine struct {
	mu   sync.Mutex
	text string
}

func (l *statusLine) set(text string) {
	l.mu.Lock()
	l.text = text
	l.mu.Unlock()
}

func (l *statusLine) get() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.text
}
