package database

import (
	"time"

	"github.com/eyebreak/eyebreak/internal/models"

	"github.com/pkg/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository handles all database operations for settings and reminder events
type Repository struct {
	db *DB
}

// NewRepository creates a new repository instance
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// LoadAll returns every stored setting keyed by name
func (r *Repository) LoadAll() (map[string]string, error) {
	var settings []models.Setting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, errors.Wrap(err, "failed to query settings")
	}

	values := make(map[string]string, len(settings))
	for _, s := range settings {
		values[s.Name] = s.Value
	}
	return values, nil
}

// Apply upserts set and deletes removed in a single transaction
func (r *Repository) Apply(set map[string]string, removed []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if len(set) > 0 {
			rows := make([]models.Setting, 0, len(set))
			for k, v := range set {
				rows = append(rows, models.Setting{Name: k, Value: v})
			}
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&rows)
			if result.Error != nil {
				return errors.Wrap(result.Error, "failed to upsert settings")
			}
		}
		if len(removed) > 0 {
			result := tx.Where("name IN ?", removed).Delete(&models.Setting{})
			if result.Error != nil {
				return errors.Wrap(result.Error, "failed to delete settings")
			}
		}
		return nil
	})
}

// CreateEvent inserts a new reminder event into the database
func (r *Repository) CreateEvent(event *models.ReminderEvent) error {
	result := r.db.Create(event)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to insert reminder event")
	}
	return nil
}

// GetEventsBetween retrieves all events in [start, end) ordered by time
func (r *Repository) GetEventsBetween(start, end time.Time) ([]*models.ReminderEvent, error) {
	var events []*models.ReminderEvent
	result := r.db.Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&events)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "failed to query reminder events")
	}

	return events, nil
}

// GetLatestEvent retrieves the most recent event, or nil if there is none
func (r *Repository) GetLatestEvent() (*models.ReminderEvent, error) {
	var event models.ReminderEvent
	result := r.db.Order("timestamp DESC").Order("id DESC").First(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(result.Error, "failed to get latest event")
	}
	return &event, nil
}

// DeleteEventsBefore soft-deletes events older than before
func (r *Repository) DeleteEventsBefore(before time.Time) (int64, error) {
	result := r.db.Where("timestamp < ?", before).Delete(&models.ReminderEvent{})
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, "failed to delete old events")
	}
	return result.RowsAffected, nil
}

// ClearEvents removes all reminder history; settings are kept
func (r *Repository) ClearEvents() error {
	result := r.db.Exec("DELETE FROM reminder_events")
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to clear reminder events")
	}
	return nil
}
