package models

import "time"

// Setting is one persisted engine value. Values are stored as text and
// parsed by the typed store.
type Setting struct {
	Name      string    `gorm:"primaryKey;size:64" json:"name"`
	Value     string    `gorm:"not null" json:"value"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
