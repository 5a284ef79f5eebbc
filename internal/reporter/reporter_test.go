package reporter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eyebreak/eyebreak/internal/config"
	"github.com/eyebreak/eyebreak/internal/models"
)

type staticSource struct {
	events     []*models.ReminderEvent
	start, end time.Time
}

func (s *staticSource) GetEventsBetween(start, end time.Time) ([]*models.ReminderEvent, error) {
	s.start, s.end = start, end
	return s.events, nil
}

func event(cycle, kind string, at time.Time, fullscreen bool) *models.ReminderEvent {
	return &models.ReminderEvent{CycleID: cycle, Kind: kind, Timestamp: at, Fullscreen: fullscreen}
}

func TestSummarize(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	events := []*models.ReminderEvent{
		event("a", "reminder", base, true),
		event("a", "rest_started", base.Add(time.Minute), true),
		event("a", "rest_finished", base.Add(6*time.Minute), false),
		event("b", "reminder", base.Add(26*time.Minute), false),
		event("b", "snoozed", base.Add(27*time.Minute), false),
		event("b", "reminder", base.Add(31*time.Minute), false),
		event("b", "rest_started", base.Add(32*time.Minute), false),
		event("b", "rest_skipped", base.Add(34*time.Minute), false),
		event("c", "rest_finished", base.Add(40*time.Minute), false), // start outside the period
	}

	r := Summarize(events)
	assert.Equal(t, int64(3), r.Reminders)
	assert.Equal(t, int64(1), r.FullscreenPrompts)
	assert.Equal(t, int64(2), r.RestsStarted)
	assert.Equal(t, int64(2), r.RestsFinished)
	assert.Equal(t, int64(1), r.RestsSkipped)
	assert.Equal(t, int64(1), r.Snoozes)
	assert.Equal(t, int64(7*60), r.RestSeconds)
	assert.InDelta(t, 7.0, r.RestMinutes, 1e-9)
	assert.InDelta(t, 200.0/3.0, r.CompliancePercent, 1e-9)
}

func TestSummarizeCapsCompliance(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	r := Summarize([]*models.ReminderEvent{
		event("a", "reminder", base, false),
		event("a", "rest_started", base, false),
		event("b", "rest_started", base.Add(time.Hour), false),
	})
	assert.Equal(t, 100.0, r.CompliancePercent)

	empty := Summarize(nil)
	assert.Zero(t, empty.CompliancePercent)
}

func TestGenerateReportPeriods(t *testing.T) {
	cfg := config.Default()
	cfg.Report.TimeZone = "UTC"
	src := &staticSource{}
	rep := New(cfg, src)
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC) // Wednesday
	rep.now = func() time.Time { return now }

	tests := []struct {
		period     string
		start, end time.Time
	}{
		{"day", time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"week", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"month", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			report, err := rep.GenerateReport(tt.period)
			require.NoError(t, err)
			assert.True(t, tt.start.Equal(report.Period.Start), "start %v", report.Period.Start)
			assert.True(t, tt.end.Equal(report.Period.End), "end %v", report.Period.End)
			assert.True(t, tt.start.Equal(src.start))
			assert.Equal(t, now, report.GeneratedAt)
		})
	}

	_, err := rep.GenerateReport("year")
	assert.ErrorContains(t, err, "invalid period type")
}

func TestFormatReport(t *testing.T) {
	rep := New(config.Default(), &staticSource{})
	report := &models.Report{
		Period:            models.ReportPeriod{Type: "day"},
		Reminders:         4,
		FullscreenPrompts: 3,
		RestsStarted:      2,
		RestsFinished:     2,
		RestSeconds:       600,
		CompliancePercent: 50,
	}

	text := rep.FormatReportText(report)
	assert.Contains(t, text, "Eye Break Report - day")
	assert.Contains(t, text, "(3 full-screen)")
	assert.Contains(t, text, "10m")
	assert.Contains(t, text, "50.0%")

	empty := rep.FormatReportText(&models.Report{Period: models.ReportPeriod{Type: "week"}})
	assert.Contains(t, empty, "No reminders recorded")

	out, err := rep.FormatReportJSON(report)
	require.NoError(t, err)
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, float64(4), decoded["reminders"])
}
