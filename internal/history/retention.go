package history

import (
	"fmt"
	"log"
	"time"
)

// EventPruner deletes events recorded before a cutoff.
type EventPruner interface {
	DeleteEventsBefore(before time.Time) (int64, error)
}

// Prune drops events older than days before now. Zero days keeps everything.
func Prune(repo EventPruner, days int, now time.Time) (int64, error) {
	if days <= 0 {
		return 0, nil
	}
	cutoff := now.AddDate(0, 0, -days)
	deleted, err := repo.DeleteEventsBefore(cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	if deleted > 0 {
		log.Printf("Pruned %d reminder events older than %s", deleted, cutoff.Format("2006-01-02"))
	}
	return deleted, nil
}
