package models

import (
	"time"

	"gorm.io/gorm"
)

// ReminderEvent is one recorded point of a reminder cycle.
type ReminderEvent struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CycleID       string         `gorm:"not null;index;size:36" json:"cycle_id"`
	Kind          string         `gorm:"not null;index" json:"kind"` // reminder, rest_started, rest_finished, rest_skipped, snoozed
	Timestamp     time.Time      `gorm:"not null;index" json:"timestamp"`
	RemindersSent int            `gorm:"not null;default:0" json:"reminders_sent"`
	Fullscreen    bool           `gorm:"not null;default:false" json:"fullscreen"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type ReportPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Type  string    `json:"type"` // "day", "week", "month"
}

type Report struct {
	Period            ReportPeriod `json:"period"`
	Reminders         int64        `json:"reminders"`
	FullscreenPrompts int64        `json:"fullscreen_prompts"`
	RestsStarted      int64        `json:"rests_started"`
	RestsFinished     int64        `json:"rests_finished"`
	RestsSkipped      int64        `json:"rests_skipped"`
	Snoozes           int64        `json:"snoozes"`
	RestSeconds       int64        `json:"rest_seconds"`
	RestMinutes       float64      `json:"rest_minutes"`
	CompliancePercent float64      `json:"compliance_percent"`
	GeneratedAt       time.Time    `json:"generated_at"`
}
