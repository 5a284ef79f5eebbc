// Package overlay holds the full-screen overlay the engine asked for, so a
// UI client can render it and answer it through the API.
package overlay

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/eyebreak/eyebreak/internal/engine"
)

// Kind is the overlay currently requested.
type Kind string

const (
	KindNone           Kind = "none"
	KindPrompt         Kind = "prompt"
	KindBreakCountdown Kind = "break_countdown"
)

// ErrNoOverlay is returned when an answer does not match the shown overlay.
var ErrNoOverlay = errors.New("no matching overlay is shown")

// Relay implements engine.Presenter. Its callbacks call straight into the
// engine, so Confirm, Later and Exit must run where the engine is serialized.
type Relay struct {
	mu        sync.Mutex
	kind      Kind
	onConfirm func()
	onLater   func()
	onExit    func()
	shown     int
	announcer engine.Notifier
}

func NewRelay() *Relay {
	return &Relay{kind: KindNone}
}

// Announce mirrors every requested overlay on the desktop through n, so the
// overlay is seen even when no UI client is polling the API. The prompt's
// action should end up in Confirm.
func (r *Relay) Announce(n engine.Notifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.announcer = n
}

func (r *Relay) ShowPrompt(onConfirm, onLater func()) {
	r.mu.Lock()
	r.kind = KindPrompt
	r.onConfirm, r.onLater, r.onExit = onConfirm, onLater, nil
	r.shown++
	n := r.announcer
	r.mu.Unlock()

	log.Println("Showing rest prompt overlay")
	announce(n, &promptNotification)
}

func (r *Relay) ShowBreakCountdown(onExit func()) {
	r.mu.Lock()
	r.kind = KindBreakCountdown
	r.onConfirm, r.onLater, r.onExit = nil, nil, onExit
	r.shown++
	n := r.announcer
	r.mu.Unlock()

	log.Println("Showing break countdown overlay")
	announce(n, &countdownNotification)
}

func (r *Relay) Hide() {
	r.mu.Lock()
	r.kind = KindNone
	r.onConfirm, r.onLater, r.onExit = nil, nil, nil
	n := r.announcer
	r.mu.Unlock()

	announce(n, nil)
}

var (
	promptNotification = engine.Notification{
		Title:       "Time to rest your eyes",
		Body:        "Look at something far away. Answer with `eyebreak overlay confirm` or `eyebreak overlay later`.",
		ActionLabel: "Rest Now",
	}
	countdownNotification = engine.Notification{
		Title: "Resting",
		Body:  "Look away from the screen until the break ends.",
	}
)

// announce replaces whatever the announcer shows with next; nil only clears.
func announce(n engine.Notifier, next *engine.Notification) {
	if n == nil {
		return
	}
	ctx := context.Background()
	if err := n.ClearAll(ctx); err != nil {
		log.Printf("Failed to clear overlay notification: %v", err)
	}
	if next == nil {
		return
	}
	if err := n.Send(ctx, *next); err != nil {
		log.Printf("Failed to announce overlay: %v", err)
	}
}

// Kind returns the overlay currently requested.
func (r *Relay) Kind() Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.kind
}

// Shown counts overlays requested since creation.
func (r *Relay) Shown() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shown
}

// Confirm answers the prompt with "rest now".
func (r *Relay) Confirm() error {
	return r.answer(KindPrompt, func() func() { return r.onConfirm })
}

// Later answers the prompt with "remind me later".
func (r *Relay) Later() error {
	return r.answer(KindPrompt, func() func() { return r.onLater })
}

// Exit leaves the break countdown overlay.
func (r *Relay) Exit() error {
	return r.answer(KindBreakCountdown, func() func() { return r.onExit })
}

// answer picks the callback under the lock and runs it outside, since the
// callback usually re-enters the relay through Hide or Show.
func (r *Relay) answer(want Kind, pick func() func()) error {
	r.mu.Lock()
	if r.kind != want {
		r.mu.Unlock()
		return ErrNoOverlay
	}
	cb := pick()
	r.mu.Unlock()

	if cb == nil {
		return ErrNoOverlay
	}
	cb()
	return nil
}
