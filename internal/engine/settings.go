package engine

import "time"

// SetWorkInterval clamps minutes into the work range. While the work
// countdown is running, a change restarts it at the new full interval;
// otherwise the remaining work never exceeds the new interval.
func (e *Engine) SetWorkInterval(minutes float64) {
	v := clamp(minutes, e.s.WorkMinMinutes, e.s.WorkMaxMinutes)
	if v == e.s.WorkIntervalMinutes {
		return
	}
	e.s.WorkIntervalMinutes = v
	if e.s.IsWorkingActive() {
		e.s.RemainingWorkSeconds = e.s.WorkSeconds()
	} else if e.s.RemainingWorkSeconds > e.s.WorkSeconds() {
		e.s.RemainingWorkSeconds = e.s.WorkSeconds()
	}
	e.persist()
}

// SetBreakDuration clamps minutes into the break range. While resting, a
// change restarts the break at the new full duration from now.
func (e *Engine) SetBreakDuration(minutes float64) {
	v := clamp(minutes, e.s.BreakMinMinutes, e.s.BreakMaxMinutes)
	if v == e.s.BreakDurationMinutes {
		return
	}
	e.s.BreakDurationMinutes = v
	if e.s.Phase == PhaseResting {
		end := e.now().Add(time.Duration(e.s.BreakSeconds()) * time.Second)
		e.s.BreakEndDate = &end
		e.s.RemainingBreakSeconds = e.s.BreakSeconds()
	}
	e.persist()
}

// SetWorkRange normalizes and applies the allowed work interval range, then
// re-clamps the current interval into it.
func (e *Engine) SetWorkRange(min, max float64) {
	lo, hi := normalizeRange(min, max)
	if lo != e.s.WorkMinMinutes || hi != e.s.WorkMaxMinutes {
		e.s.WorkMinMinutes, e.s.WorkMaxMinutes = lo, hi
		e.persist()
	}
	e.SetWorkInterval(e.s.WorkIntervalMinutes)
}

// SetBreakRange normalizes and applies the allowed break duration range, then
// re-clamps the current duration into it.
func (e *Engine) SetBreakRange(min, max float64) {
	lo, hi := normalizeRange(min, max)
	if lo != e.s.BreakMinMinutes || hi != e.s.BreakMaxMinutes {
		e.s.BreakMinMinutes, e.s.BreakMaxMinutes = lo, hi
		e.persist()
	}
	e.SetBreakDuration(e.s.BreakDurationMinutes)
}

// NudgeWorkInterval adjusts the work interval by delta minutes.
func (e *Engine) NudgeWorkInterval(delta float64) {
	e.SetWorkInterval(e.s.WorkIntervalMinutes + delta)
}

// NudgeBreakDuration adjusts the break duration by delta minutes.
func (e *Engine) NudgeBreakDuration(delta float64) {
	e.SetBreakDuration(e.s.BreakDurationMinutes + delta)
}

func (e *Engine) SetAllowExitFullscreenDuringBreak(allow bool) {
	if e.s.AllowExitFullscreenDuringBreak == allow {
		return
	}
	e.s.AllowExitFullscreenDuringBreak = allow
	e.persist()
}

// SetScreenLocked is fed by the OS lock/unlock signal. While locked the work
// countdown and the repeat-reminder countdown are frozen.
func (e *Engine) SetScreenLocked(locked bool) {
	if e.s.IsScreenLocked == locked {
		return
	}
	e.s.IsScreenLocked = locked
	e.persist()
}
