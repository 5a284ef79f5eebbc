package reporter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/eyebreak/eyebreak/internal/config"
	"github.com/eyebreak/eyebreak/internal/engine"
	"github.com/eyebreak/eyebreak/internal/models"
	"github.com/eyebreak/eyebreak/pkg/utils"
)

// EventSource is the part of the repository reports are built from.
type EventSource interface {
	GetEventsBetween(start, end time.Time) ([]*models.ReminderEvent, error)
}

// Reporter handles report generation
type Reporter struct {
	config *config.Config
	repo   EventSource
	now    func() time.Time
}

// New creates a new reporter
func New(cfg *config.Config, repo EventSource) *Reporter {
	return &Reporter{
		config: cfg,
		repo:   repo,
		now:    time.Now,
	}
}

// GenerateReport generates a report for the specified period
func (r *Reporter) GenerateReport(periodType string) (*models.Report, error) {
	period, err := r.getPeriod(periodType)
	if err != nil {
		return nil, err
	}

	events, err := r.repo.GetEventsBetween(period.Start, period.End)
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder events: %w", err)
	}

	report := Summarize(events)
	report.Period = *period
	report.GeneratedAt = r.now()
	return report, nil
}

// Summarize counts events and pairs each rest start with the finish or skip
// of the same cycle to total the time spent resting.
func Summarize(events []*models.ReminderEvent) *models.Report {
	report := &models.Report{}
	started := make(map[string]time.Time)

	for _, ev := range events {
		switch engine.EventKind(ev.Kind) {
		case engine.EventReminder:
			report.Reminders++
			if ev.Fullscreen {
				report.FullscreenPrompts++
			}
		case engine.EventRestStarted:
			report.RestsStarted++
			started[ev.CycleID] = ev.Timestamp
		case engine.EventRestFinished, engine.EventRestSkipped:
			if ev.Kind == string(engine.EventRestFinished) {
				report.RestsFinished++
			} else {
				report.RestsSkipped++
			}
			if at, ok := started[ev.CycleID]; ok {
				if d := ev.Timestamp.Sub(at); d > 0 {
					report.RestSeconds += int64(d.Seconds())
				}
				delete(started, ev.CycleID)
			}
		case engine.EventSnoozed:
			report.Snoozes++
		}
	}

	report.RestMinutes = float64(report.RestSeconds) / 60.0
	if report.Reminders > 0 {
		pct := float64(report.RestsStarted) / float64(report.Reminders) * 100.0
		if pct > 100 {
			pct = 100
		}
		report.CompliancePercent = pct
	}
	return report
}

// getPeriod calculates the time range for the report
func (r *Reporter) getPeriod(periodType string) (*models.ReportPeriod, error) {
	loc := time.Local
	if r.config != nil && r.config.Report.TimeZone != "" && r.config.Report.TimeZone != "Local" {
		l, err := time.LoadLocation(r.config.Report.TimeZone)
		if err != nil {
			return nil, fmt.Errorf("invalid time zone %q: %w", r.config.Report.TimeZone, err)
		}
		loc = l
	}
	now := r.now().In(loc)
	var start, end time.Time

	switch periodType {
	case "day", "today":
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		end = start.AddDate(0, 0, 1)

	case "week":
		// Start of week (Monday)
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -(weekday - 1))
		end = start.AddDate(0, 0, 7)

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = start.AddDate(0, 1, 0)

	default:
		return nil, fmt.Errorf("invalid period type: %s (valid: day, week, month)", periodType)
	}

	return &models.ReportPeriod{
		Start: start,
		End:   end,
		Type:  periodType,
	}, nil
}

// FormatReportText formats the report as human-readable text
func (r *Reporter) FormatReportText(report *models.Report) string {
	output := fmt.Sprintf("Eye Break Report - %s\n", report.Period.Type)
	output += fmt.Sprintf("Period: %s to %s\n\n",
		report.Period.Start.Format("2006-01-02 15:04"),
		report.Period.End.Format("2006-01-02 15:04"))

	if report.Reminders == 0 && report.RestsStarted == 0 {
		output += "No reminders recorded for this period.\n"
		return output
	}

	output += fmt.Sprintf("%-24s %10d (%d full-screen)\n", "Reminders", report.Reminders, report.FullscreenPrompts)
	output += fmt.Sprintf("%-24s %10d\n", "Rests started", report.RestsStarted)
	output += fmt.Sprintf("%-24s %10d\n", "Rests finished", report.RestsFinished)
	output += fmt.Sprintf("%-24s %10d\n", "Rests skipped", report.RestsSkipped)
	output += fmt.Sprintf("%-24s %10d\n", "Snoozes", report.Snoozes)
	output += fmt.Sprintf("%-24s %10s\n", "Time resting", utils.FormatRoundedUnit(report.RestSeconds))
	output += fmt.Sprintf("%-24s %9.1f%%\n", "Compliance", report.CompliancePercent)

	return output
}

// FormatReportJSON formats the report as JSON
func (r *Reporter) FormatReportJSON(report *models.Report) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(data), nil
}
