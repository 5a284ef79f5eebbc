package engine

import (
	"log"
)

// Store keys. They are part of the on-disk format.
const (
	keyPhase                     = "phase"
	keyWorkInterval              = "workIntervalMinutes"
	keyBreakDuration             = "breakDurationMinutes"
	keyWorkMin                   = "workMinMinutes"
	keyWorkMax                   = "workMaxMinutes"
	keyBreakMin                  = "breakMinMinutes"
	keyBreakMax                  = "breakMaxMinutes"
	keyRemainingWork             = "remainingWorkSeconds"
	keyWaiting                   = "waitingForRestConfirmation"
	keySecondsUntilNextReminder  = "secondsUntilNextReminder"
	keyBreakEndDate              = "breakEndDate"
	keyRemainingBreak            = "remainingBreakSeconds"
	keyRemindersSent             = "remindersSent"
	keyScreenLocked              = "isScreenLocked"
	keyFullscreenVisible         = "isFullscreenReminderVisible"
	keyHasStartedTimer           = "hasStartedTimer"
	keyAllowExitFullscreen       = "allowExitFullscreenDuringBreak"
	keyNotificationAuthRequested = "notificationAuthRequested"
)

func (e *Engine) load() {
	s := DefaultSession()
	st := e.store

	if v, ok := st.String(keyPhase); ok && Phase(v) == PhaseResting {
		s.Phase = PhaseResting
	}
	loadFloat(st, keyWorkInterval, &s.WorkIntervalMinutes)
	loadFloat(st, keyBreakDuration, &s.BreakDurationMinutes)
	loadFloat(st, keyWorkMin, &s.WorkMinMinutes)
	loadFloat(st, keyWorkMax, &s.WorkMaxMinutes)
	loadFloat(st, keyBreakMin, &s.BreakMinMinutes)
	loadFloat(st, keyBreakMax, &s.BreakMaxMinutes)
	loadInt(st, keyRemainingWork, &s.RemainingWorkSeconds)
	loadBool(st, keyWaiting, &s.WaitingForRestConfirmation)
	loadInt(st, keySecondsUntilNextReminder, &s.SecondsUntilNextReminder)
	if t, ok := st.Time(keyBreakEndDate); ok {
		s.BreakEndDate = &t
	}
	loadInt(st, keyRemainingBreak, &s.RemainingBreakSeconds)
	loadInt(st, keyRemindersSent, &s.RemindersSent)
	loadBool(st, keyScreenLocked, &s.IsScreenLocked)
	loadBool(st, keyFullscreenVisible, &s.IsFullscreenReminderVisible)
	loadBool(st, keyHasStartedTimer, &s.HasStartedTimer)
	loadBool(st, keyAllowExitFullscreen, &s.AllowExitFullscreenDuringBreak)
	loadBool(st, keyNotificationAuthRequested, &e.authRequested)

	e.s = s
}

// Reconcile corrects loaded state for elapsed wall-clock time and invalid
// values. It is idempotent and always persists.
func (e *Engine) Reconcile() {
	s := &e.s

	s.WorkMinMinutes, s.WorkMaxMinutes = normalizeRange(s.WorkMinMinutes, s.WorkMaxMinutes)
	s.BreakMinMinutes, s.BreakMaxMinutes = normalizeRange(s.BreakMinMinutes, s.BreakMaxMinutes)
	s.WorkIntervalMinutes = clamp(s.WorkIntervalMinutes, s.WorkMinMinutes, s.WorkMaxMinutes)
	s.BreakDurationMinutes = clamp(s.BreakDurationMinutes, s.BreakMinMinutes, s.BreakMaxMinutes)
	if s.RemindersSent < 0 {
		s.RemindersSent = 0
	}

	// No overlay survives a restart.
	s.IsFullscreenReminderVisible = false

	switch s.Phase {
	case PhaseResting:
		s.WaitingForRestConfirmation = false
		if s.RemainingWorkSeconds < 0 || s.RemainingWorkSeconds > s.WorkSeconds() {
			s.RemainingWorkSeconds = s.WorkSeconds()
		}
		if s.BreakEndDate == nil {
			e.finishRestCycle(EventRestFinished)
			break
		}
		now := e.now()
		s.RemainingBreakSeconds = secondsUntil(now, *s.BreakEndDate)
		if !now.Before(*s.BreakEndDate) {
			e.finishRestCycle(EventRestFinished)
		}
	default:
		s.Phase = PhaseWorking
		s.BreakEndDate = nil
		s.RemainingBreakSeconds = 0
		if s.WaitingForRestConfirmation {
			s.RemainingWorkSeconds = 0
		} else if s.RemainingWorkSeconds <= 0 || s.RemainingWorkSeconds > s.WorkSeconds() {
			s.RemainingWorkSeconds = s.WorkSeconds()
		}
	}

	if s.SecondsUntilNextReminder <= 0 || s.SecondsUntilNextReminder > ReminderRepeatSeconds {
		s.SecondsUntilNextReminder = ReminderRepeatSeconds
	}

	e.persist()
}

// persist writes the whole session. A failed flush is logged; the in-memory
// state stays authoritative and the next change retries the write.
func (e *Engine) persist() {
	s := e.s
	st := e.store

	st.SetString(keyPhase, string(s.Phase))
	st.SetFloat(keyWorkInterval, s.WorkIntervalMinutes)
	st.SetFloat(keyBreakDuration, s.BreakDurationMinutes)
	st.SetFloat(keyWorkMin, s.WorkMinMinutes)
	st.SetFloat(keyWorkMax, s.WorkMaxMinutes)
	st.SetFloat(keyBreakMin, s.BreakMinMinutes)
	st.SetFloat(keyBreakMax, s.BreakMaxMinutes)
	st.SetInt(keyRemainingWork, s.RemainingWorkSeconds)
	st.SetBool(keyWaiting, s.WaitingForRestConfirmation)
	st.SetInt(keySecondsUntilNextReminder, s.SecondsUntilNextReminder)
	if s.BreakEndDate != nil {
		st.SetTime(keyBreakEndDate, *s.BreakEndDate)
	} else {
		st.Remove(keyBreakEndDate)
	}
	st.SetInt(keyRemainingBreak, s.RemainingBreakSeconds)
	st.SetInt(keyRemindersSent, s.RemindersSent)
	st.SetBool(keyScreenLocked, s.IsScreenLocked)
	st.SetBool(keyFullscreenVisible, s.IsFullscreenReminderVisible)
	st.SetBool(keyHasStartedTimer, s.HasStartedTimer)
	st.SetBool(keyAllowExitFullscreen, s.AllowExitFullscreenDuringBreak)
	st.SetBool(keyNotificationAuthRequested, e.authRequested)

	if err := st.Flush(); err != nil {
		log.Printf("Failed to persist reminder state: %v", err)
	}
}

func loadFloat(st Store, key string, dst *float64) {
	if v, ok := st.Float(key); ok {
		*dst = v
	}
}

func loadInt(st Store, key string, dst *int) {
	if v, ok := st.Int(key); ok {
		*dst = v
	}
}

func loadBool(st Store, key string, dst *bool) {
	if v, ok := st.Bool(key); ok {
		*dst = v
	}
}
