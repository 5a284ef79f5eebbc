package engine

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Tick advances the session by one second.
func (e *Engine) Tick() {
	switch {
	case e.s.Phase == PhaseResting:
		e.tickResting()
	case e.s.WaitingForRestConfirmation:
		e.tickAwaiting()
	default:
		e.tickWorking()
	}
	e.persist()
}

func (e *Engine) tickWorking() {
	if e.s.IsScreenLocked {
		return
	}
	e.s.RemainingWorkSeconds--
	if e.s.RemainingWorkSeconds > 0 {
		return
	}
	e.s.RemainingWorkSeconds = 0
	e.s.WaitingForRestConfirmation = true
	e.s.SecondsUntilNextReminder = ReminderRepeatSeconds
	e.triggerReminderPresentation()
}

// tickAwaiting holds the repeat countdown while a prompt is on screen or the
// user is away, so nobody gets prompted twice.
func (e *Engine) tickAwaiting() {
	if e.s.IsFullscreenReminderVisible || e.s.IsScreenLocked {
		return
	}
	e.s.SecondsUntilNextReminder--
	if e.s.SecondsUntilNextReminder > 0 {
		return
	}
	e.s.SecondsUntilNextReminder = ReminderRepeatSeconds
	e.triggerReminderPresentation()
}

// tickResting runs off the wall clock, so it ignores the lock and catches up
// after the process was suspended.
func (e *Engine) tickResting() {
	if e.s.BreakEndDate == nil {
		e.finishRestCycle(EventRestFinished)
		return
	}
	now := e.now()
	e.s.RemainingBreakSeconds = secondsUntil(now, *e.s.BreakEndDate)
	if !now.Before(*e.s.BreakEndDate) {
		e.finishRestCycle(EventRestFinished)
	}
}

// ConfirmRest starts a break from the main window. Allowed at any point of
// the Working phase, including before the work interval has elapsed.
func (e *Engine) ConfirmRest() {
	if e.s.Phase != PhaseWorking {
		return
	}
	e.startRest(false)
}

// ConfirmRestFromFullscreenReminder starts a break from the prompt overlay
// and keeps the break countdown on screen.
func (e *Engine) ConfirmRestFromFullscreenReminder() {
	if !e.s.IsAwaitingConfirmation() {
		return
	}
	e.startRest(true)
}

// SnoozeRestReminder defers an unanswered reminder by one repeat period.
func (e *Engine) SnoozeRestReminder() {
	if !e.s.IsAwaitingConfirmation() {
		return
	}
	e.s.SecondsUntilNextReminder = ReminderRepeatSeconds
	e.hideOverlay()
	e.record(EventSnoozed, false)
	e.persist()
}

// SkipRest ends the current break early when exiting is allowed.
func (e *Engine) SkipRest() {
	if e.s.Phase != PhaseResting || !e.s.AllowExitFullscreenDuringBreak {
		return
	}
	e.finishRestCycle(EventRestSkipped)
	e.persist()
}

// DismissFullscreenBreakOverlay is the exit action of the break countdown
// overlay. The break itself keeps running.
func (e *Engine) DismissFullscreenBreakOverlay() {
	if e.s.Phase != PhaseResting || !e.s.AllowExitFullscreenDuringBreak {
		return
	}
	if !e.s.IsFullscreenReminderVisible {
		return
	}
	e.hideOverlay()
	e.persist()
}

func (e *Engine) startRest(fullscreen bool) {
	e.s.WaitingForRestConfirmation = false
	e.s.SecondsUntilNextReminder = ReminderRepeatSeconds
	e.s.Phase = PhaseResting
	end := e.now().Add(time.Duration(e.s.BreakSeconds()) * time.Second)
	e.s.BreakEndDate = &end
	e.s.RemainingBreakSeconds = e.s.BreakSeconds()

	e.clearNotifications()
	if fullscreen {
		e.s.IsFullscreenReminderVisible = true
		e.presenter.ShowBreakCountdown(e.DismissFullscreenBreakOverlay)
	} else {
		e.hideOverlay()
	}
	e.record(EventRestStarted, fullscreen)
	e.persist()
}

// finishRestCycle is the only way back to Working and always starts a fresh
// interval at the currently configured length. Callers persist.
func (e *Engine) finishRestCycle(kind EventKind) {
	e.s.Phase = PhaseWorking
	e.s.BreakEndDate = nil
	e.s.RemainingBreakSeconds = 0
	e.s.WaitingForRestConfirmation = false
	e.s.SecondsUntilNextReminder = ReminderRepeatSeconds
	e.s.RemainingWorkSeconds = e.s.WorkSeconds()
	e.hideOverlay()
	e.record(kind, false)
}

// triggerReminderPresentation prompts full-screen unless the foreground is
// already full-screen (or that cannot be determined), in which case a
// background notification is sent instead.
func (e *Engine) triggerReminderPresentation() {
	e.s.RemindersSent++

	if e.foregroundIsFullscreen() {
		e.sendNotification()
		e.record(EventReminder, false)
		return
	}
	e.s.IsFullscreenReminderVisible = true
	e.presenter.ShowPrompt(e.ConfirmRestFromFullscreenReminder, e.SnoozeRestReminder)
	e.record(EventReminder, true)
}

func (e *Engine) foregroundIsFullscreen() bool {
	if e.fullscreen == nil {
		return true
	}
	fs, err := e.fullscreen.IsForegroundFullscreen()
	if err != nil {
		return true
	}
	return fs
}

func (e *Engine) sendNotification() {
	n := Notification{
		Title:       "Time to rest your eyes",
		Body:        fmt.Sprintf("Look at something far away. Take a %s break.", DurationText(e.s.BreakDurationMinutes)),
		ActionLabel: "Start Rest",
	}
	e.async(func() {
		if err := e.notifier.Send(context.Background(), n); err != nil {
			e.status.set("Notification failed: " + err.Error())
			return
		}
		e.status.set("Reminder sent")
	})
}

func (e *Engine) clearNotifications() {
	e.async(func() {
		if err := e.notifier.ClearAll(context.Background()); err != nil {
			e.status.set("Could not clear notifications: " + err.Error())
		}
	})
}

func (e *Engine) hideOverlay() {
	if !e.s.IsFullscreenReminderVisible {
		return
	}
	e.s.IsFullscreenReminderVisible = false
	e.presenter.Hide()
}

// secondsUntil rounds up so a break never reads 0 while time remains.
func secondsUntil(now, end time.Time) int {
	d := end.Sub(now)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
