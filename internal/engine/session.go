package engine

import (
	"math"
	"time"
)

// Phase is the top-level state of the reminder cycle.
type Phase string

const (
	PhaseWorking Phase = "working"
	PhaseResting Phase = "resting"
)

const (
	// ReminderRepeatSeconds is the re-prompt cadence while a reminder is unanswered.
	ReminderRepeatSeconds = 300

	// AbsoluteMaxMinutes bounds every configurable range.
	AbsoluteMaxMinutes = 1440.0

	DefaultWorkIntervalMinutes  = 20.0
	DefaultBreakDurationMinutes = 5.0
	DefaultWorkMinMinutes       = 0.0
	DefaultWorkMaxMinutes       = 120.0
	DefaultBreakMinMinutes      = 0.0
	DefaultBreakMaxMinutes      = 60.0
)

// Session is the live state of the engine. The engine owns the only
// mutable instance; Snapshot hands out copies.
type Session struct {
	Phase Phase `json:"phase"`

	WorkIntervalMinutes  float64 `json:"work_interval_minutes"`
	BreakDurationMinutes float64 `json:"break_duration_minutes"`
	WorkMinMinutes       float64 `json:"work_min_minutes"`
	WorkMaxMinutes       float64 `json:"work_max_minutes"`
	BreakMinMinutes      float64 `json:"break_min_minutes"`
	BreakMaxMinutes      float64 `json:"break_max_minutes"`

	RemainingWorkSeconds       int  `json:"remaining_work_seconds"`
	WaitingForRestConfirmation bool `json:"waiting_for_rest_confirmation"`
	SecondsUntilNextReminder   int  `json:"seconds_until_next_reminder"`

	// BreakEndDate is set only while resting.
	BreakEndDate          *time.Time `json:"break_end_date,omitempty"`
	RemainingBreakSeconds int        `json:"remaining_break_seconds"`

	RemindersSent int `json:"reminders_sent"`

	IsScreenLocked                 bool `json:"is_screen_locked"`
	IsFullscreenReminderVisible    bool `json:"is_fullscreen_reminder_visible"`
	HasStartedTimer                bool `json:"has_started_timer"`
	AllowExitFullscreenDuringBreak bool `json:"allow_exit_fullscreen_during_break"`
}

// DefaultSession returns the state used on first run.
func DefaultSession() Session {
	return Session{
		Phase:                          PhaseWorking,
		WorkIntervalMinutes:            DefaultWorkIntervalMinutes,
		BreakDurationMinutes:           DefaultBreakDurationMinutes,
		WorkMinMinutes:                 DefaultWorkMinMinutes,
		WorkMaxMinutes:                 DefaultWorkMaxMinutes,
		BreakMinMinutes:                DefaultBreakMinMinutes,
		BreakMaxMinutes:                DefaultBreakMaxMinutes,
		RemainingWorkSeconds:           minutesToSeconds(DefaultWorkIntervalMinutes),
		SecondsUntilNextReminder:       ReminderRepeatSeconds,
		AllowExitFullscreenDuringBreak: true,
	}
}

// WorkSeconds is the configured work interval in whole seconds.
func (s Session) WorkSeconds() int {
	return minutesToSeconds(s.WorkIntervalMinutes)
}

// BreakSeconds is the configured break duration in whole seconds.
func (s Session) BreakSeconds() int {
	return minutesToSeconds(s.BreakDurationMinutes)
}

// IsWorkingActive reports whether the work countdown is running.
func (s Session) IsWorkingActive() bool {
	return s.Phase == PhaseWorking && !s.WaitingForRestConfirmation
}

// IsAwaitingConfirmation reports whether a reminder is waiting for an answer.
func (s Session) IsAwaitingConfirmation() bool {
	return s.Phase == PhaseWorking && s.WaitingForRestConfirmation
}

func minutesToSeconds(minutes float64) int {
	return int(math.Round(minutes * 60))
}

// clamp keeps v inside [lo, hi]. NaN collapses to lo.
func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeRange bounds min to [0, AbsoluteMaxMinutes] and max to
// [min, AbsoluteMaxMinutes]. A negative max is not a usable bound and ends up
// equal to min.
func normalizeRange(min, max float64) (float64, float64) {
	lo := clamp(min, 0, AbsoluteMaxMinutes)
	hi := clamp(max, lo, AbsoluteMaxMinutes)
	return lo, hi
}
