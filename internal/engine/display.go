package engine

import (
	"fmt"

	"github.com/eyebreak/eyebreak/pkg/utils"
)

// StatusText is the one-line description shown in the main window.
func (e *Engine) StatusText() string {
	s := e.s
	switch {
	case !s.HasStartedTimer:
		return "Timer not started"
	case s.Phase == PhaseResting:
		return fmt.Sprintf("Resting: %s left", utils.FormatCountdown(int64(s.RemainingBreakSeconds)))
	case s.WaitingForRestConfirmation && s.IsScreenLocked:
		return "Time to rest your eyes (paused while locked)"
	case s.WaitingForRestConfirmation:
		return "Time to rest your eyes"
	case s.IsScreenLocked:
		return fmt.Sprintf("Paused while screen is locked (%s left)", utils.FormatCountdown(int64(s.RemainingWorkSeconds)))
	default:
		return fmt.Sprintf("Next break in %s", utils.FormatCountdown(int64(s.RemainingWorkSeconds)))
	}
}

// MenuTitle is the compact text for a tray or menu bar item.
func (e *Engine) MenuTitle() string {
	s := e.s
	switch {
	case s.Phase == PhaseResting:
		return "Rest " + utils.FormatCountdown(int64(s.RemainingBreakSeconds))
	case s.WaitingForRestConfirmation:
		return "Rest now"
	default:
		return utils.FormatCountdown(int64(s.RemainingWorkSeconds))
	}
}

// CountdownText is the countdown of the current phase.
func (e *Engine) CountdownText() string {
	if e.s.Phase == PhaseResting {
		return utils.FormatCountdown(int64(e.s.RemainingBreakSeconds))
	}
	return utils.FormatCountdown(int64(e.s.RemainingWorkSeconds))
}

// ReminderCountdownText describes when an unanswered reminder repeats.
func (e *Engine) ReminderCountdownText() string {
	if !e.s.IsAwaitingConfirmation() {
		return ""
	}
	return "Reminding again in " + utils.FormatCountdown(int64(e.s.SecondsUntilNextReminder))
}

// Progress is the elapsed fraction of the current phase in [0, 1].
func (e *Engine) Progress() float64 {
	s := e.s
	var total, left int
	switch {
	case s.Phase == PhaseResting:
		total, left = s.BreakSeconds(), s.RemainingBreakSeconds
	case s.WaitingForRestConfirmation:
		return 1
	default:
		total, left = s.WorkSeconds(), s.RemainingWorkSeconds
	}
	if total <= 0 {
		return 1
	}
	p := float64(total-left) / float64(total)
	return clamp(p, 0, 1)
}

// IntervalText formats the configured work interval.
func (e *Engine) IntervalText() string {
	return DurationText(e.s.WorkIntervalMinutes)
}

// BreakText formats the configured break duration.
func (e *Engine) BreakText() string {
	return DurationText(e.s.BreakDurationMinutes)
}

// DurationText formats a minute value as "20 min" or "20.5 min".
func DurationText(minutes float64) string {
	return utils.FormatMinutes(minutes)
}
