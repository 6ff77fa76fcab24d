package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/langseed/pkg/models"
)

// History combines the attempt log and the progress snapshots
type History struct {
	Attempts *AttemptRepository
	Progress *ProgressRepository
}

// NewHistory creates a history backed by db
func NewHistory(db *sqlx.DB) *History {
	return &History{
		Attempts: NewAttemptRepository(db),
		Progress: NewProgressRepository(db),
	}
}

func (h *History) CreateProgress(ctx context.Context, p models.ProgressSnapshot) error {
	return h.Progress.Create(ctx, p)
}

func (h *History) RecentProgress(ctx context.Context, limit int) ([]models.ProgressSnapshot, error) {
	return h.Progress.Recent(ctx, limit)
}

func (h *History) AccuracyByTask(ctx context.Context, since time.Time) ([]TaskAccuracy, error) {
	return h.Attempts.AccuracyByTask(ctx, since)
}
