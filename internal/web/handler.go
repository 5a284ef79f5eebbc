package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/eyebreak/eyebreak/internal/config"
	"github.com/eyebreak/eyebreak/internal/engine"
	"github.com/eyebreak/eyebreak/internal/models"
	"github.com/eyebreak/eyebreak/internal/overlay"
)

// ReportSource builds history reports.
type ReportSource interface {
	GenerateReport(periodType string) (*models.Report, error)
}

// Status is the body of GET /api/status and of every state-changing call.
type Status struct {
	Session               engine.Session `json:"session"`
	Running               bool           `json:"running"`
	StatusText            string         `json:"status_text"`
	MenuTitle             string         `json:"menu_title"`
	CountdownText         string         `json:"countdown_text"`
	ReminderCountdownText string         `json:"reminder_countdown_text"`
	IntervalText          string         `json:"interval_text"`
	BreakText             string         `json:"break_text"`
	Progress              float64        `json:"progress"`
	NotificationStatus    string         `json:"notification_status"`
	Overlay               overlay.Kind   `json:"overlay"`
}

// SettingsRequest is the body of PUT /api/settings. Absent fields are left
// unchanged; ranges are applied before values.
type SettingsRequest struct {
	WorkIntervalMinutes            *float64 `json:"work_interval_minutes,omitempty"`
	BreakDurationMinutes           *float64 `json:"break_duration_minutes,omitempty"`
	WorkMinMinutes                 *float64 `json:"work_min_minutes,omitempty"`
	WorkMaxMinutes                 *float64 `json:"work_max_minutes,omitempty"`
	BreakMinMinutes                *float64 `json:"break_min_minutes,omitempty"`
	BreakMaxMinutes                *float64 `json:"break_max_minutes,omitempty"`
	AllowExitFullscreenDuringBreak *bool    `json:"allow_exit_fullscreen_during_break,omitempty"`
}

// NudgeRequest is the body of POST /api/settings/nudge.
type NudgeRequest struct {
	Target string  `json:"target"` // "work" or "break"
	Delta  float64 `json:"delta"`
}

// ScreenLockRequest is the body of POST /api/screen-lock.
type ScreenLockRequest struct {
	Locked bool `json:"locked"`
}

type Handler struct {
	config   *config.Config
	runner   *engine.Runner
	relay    *overlay.Relay
	reporter ReportSource
	timerCtx context.Context
}

// NewHandler creates the API handler. timerCtx bounds the ticking goroutine
// started through POST /api/timer/start.
func NewHandler(timerCtx context.Context, cfg *config.Config, runner *engine.Runner, relay *overlay.Relay, rep ReportSource) *Handler {
	return &Handler{
		config:   cfg,
		runner:   runner,
		relay:    relay,
		reporter: rep,
		timerCtx: timerCtx,
	}
}

// Routes returns the API router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", h.handleStatus)
		r.Post("/timer/start", h.handleStartTimer)

		r.Post("/rest/confirm", h.engineAction(func(e *engine.Engine) { e.ConfirmRest() }))
		r.Post("/rest/snooze", h.engineAction(func(e *engine.Engine) { e.SnoozeRestReminder() }))
		r.Post("/rest/skip", h.engineAction(func(e *engine.Engine) { e.SkipRest() }))

		r.Post("/overlay/{action}", h.handleOverlay)

		r.Put("/settings", h.handleSettings)
		r.Post("/settings/nudge", h.handleNudge)
		r.Post("/screen-lock", h.handleScreenLock)

		r.Get("/report", h.handleReport)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	}, http.StatusOK)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.status(), http.StatusOK)
}

func (h *Handler) handleStartTimer(w http.ResponseWriter, r *http.Request) {
	if !h.runner.Running() {
		h.runner.Start(h.timerCtx)
	}
	respondJSON(w, h.status(), http.StatusOK)
}

// engineAction wraps an engine operation whose preconditions the engine
// checks itself; an inapplicable action leaves the state untouched.
func (h *Handler) engineAction(fn func(e *engine.Engine)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.runner.Do(fn)
		respondJSON(w, h.status(), http.StatusOK)
	}
}

func (h *Handler) handleOverlay(w http.ResponseWriter, r *http.Request) {
	var answer func() error
	switch chi.URLParam(r, "action") {
	case "confirm":
		answer = h.relay.Confirm
	case "later":
		answer = h.relay.Later
	case "exit":
		answer = h.relay.Exit
	default:
		respondError(w, "unknown overlay action", http.StatusNotFound)
		return
	}

	var err error
	h.runner.Do(func(*engine.Engine) { err = answer() })
	if errors.Is(err, overlay.ErrNoOverlay) {
		respondError(w, err.Error(), http.StatusConflict)
		return
	}
	respondJSON(w, h.status(), http.StatusOK)
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.runner.Do(func(e *engine.Engine) {
		s := e.Snapshot()
		if req.WorkMinMinutes != nil || req.WorkMaxMinutes != nil {
			e.SetWorkRange(orValue(req.WorkMinMinutes, s.WorkMinMinutes), orValue(req.WorkMaxMinutes, s.WorkMaxMinutes))
		}
		if req.BreakMinMinutes != nil || req.BreakMaxMinutes != nil {
			e.SetBreakRange(orValue(req.BreakMinMinutes, s.BreakMinMinutes), orValue(req.BreakMaxMinutes, s.BreakMaxMinutes))
		}
		if req.WorkIntervalMinutes != nil {
			e.SetWorkInterval(*req.WorkIntervalMinutes)
		}
		if req.BreakDurationMinutes != nil {
			e.SetBreakDuration(*req.BreakDurationMinutes)
		}
		if req.AllowExitFullscreenDuringBreak != nil {
			e.SetAllowExitFullscreenDuringBreak(*req.AllowExitFullscreenDuringBreak)
		}
	})
	respondJSON(w, h.status(), http.StatusOK)
}

func (h *Handler) handleNudge(w http.ResponseWriter, r *http.Request) {
	var req NudgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !isFinite(req.Delta) {
		respondError(w, "delta must be a finite number", http.StatusBadRequest)
		return
	}

	switch req.Target {
	case "work":
		h.runner.Do(func(e *engine.Engine) { e.NudgeWorkInterval(req.Delta) })
	case "break":
		h.runner.Do(func(e *engine.Engine) { e.NudgeBreakDuration(req.Delta) })
	default:
		respondError(w, fmt.Sprintf("invalid nudge target %q (valid: work, break)", req.Target), http.StatusBadRequest)
		return
	}
	respondJSON(w, h.status(), http.StatusOK)
}

func (h *Handler) handleScreenLock(w http.ResponseWriter, r *http.Request) {
	var req ScreenLockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	h.runner.Do(func(e *engine.Engine) { e.SetScreenLocked(req.Locked) })
	respondJSON(w, h.status(), http.StatusOK)
}

func (h *Handler) handleReport(w http.ResponseWriter, r *http.Request) {
	if h.reporter == nil {
		respondError(w, "reports are not available", http.StatusServiceUnavailable)
		return
	}

	periodType := r.URL.Query().Get("period")
	if periodType == "" {
		periodType = "day"
	}
	switch periodType {
	case "day", "today", "week", "month":
	default:
		respondError(w, fmt.Sprintf("invalid period type: %s", periodType), http.StatusBadRequest)
		return
	}

	report, err := h.reporter.GenerateReport(periodType)
	if err != nil {
		respondError(w, fmt.Sprintf("Failed to generate report: %v", err), http.StatusInternalServerError)
		return
	}

	respondJSON(w, report, http.StatusOK)
}

func (h *Handler) status() Status {
	var st Status
	h.runner.Do(func(e *engine.Engine) {
		st = Status{
			Session:               e.Snapshot(),
			StatusText:            e.StatusText(),
			MenuTitle:             e.MenuTitle(),
			CountdownText:         e.CountdownText(),
			ReminderCountdownText: e.ReminderCountdownText(),
			IntervalText:          e.IntervalText(),
			BreakText:             e.BreakText(),
			Progress:              e.Progress(),
			NotificationStatus:    e.NotificationStatus(),
		}
	})
	st.Running = h.runner.Running()
	st.Overlay = overlay.KindNone
	if h.relay != nil {
		st.Overlay = h.relay.Kind()
	}
	return st
}

func (req SettingsRequest) validate() error {
	fields := map[string]*float64{
		"work_interval_minutes":  req.WorkIntervalMinutes,
		"break_duration_minutes": req.BreakDurationMinutes,
		"work_min_minutes":       req.WorkMinMinutes,
		"work_max_minutes":       req.WorkMaxMinutes,
		"break_min_minutes":      req.BreakMinMinutes,
		"break_max_minutes":      req.BreakMaxMinutes,
	}
	for name, v := range fields {
		if v != nil && !isFinite(*v) {
			return fmt.Errorf("%s must be a finite number", name)
		}
	}
	return nil
}

func orValue(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON: %v", err)
	}
}

func respondError(w http.ResponseWriter, msg string, status int) {
	respondJSON(w, map[string]string{"error": msg}, status)
}
