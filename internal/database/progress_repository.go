package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/langseed/pkg/models"
)

// ProgressRepository stores per-session progress snapshots
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

type progressRow struct {
	models.ProgressSnapshot
	AvgCharacter float64 `db:"avg_character"`
	AvgPinyin    float64 `db:"avg_pinyin"`
	AvgMeaning   float64 `db:"avg_meaning"`
	AvgAudio     float64 `db:"avg_audio"`
}

// Create inserts a new snapshot
func (r *ProgressRepository) Create(ctx context.Context, p models.ProgressSnapshot) error {
	query := r.db.Rebind(`
		INSERT INTO progress_snapshots (
			id, session_id, recorded_at, questions, correct, accuracy,
			avg_character, avg_pinyin, avg_meaning, avg_audio,
			overall_average, concept_count
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	avg := p.ModalityAverages
	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.SessionID, p.RecordedAt.UTC(), p.Questions, p.Correct, p.Accuracy,
		avg[models.Character], avg[models.Pinyin], avg[models.Meaning], avg[models.Audio],
		p.OverallAverage, p.ConceptCount,
	)
	return errors.Wrap(err, "failed to create progress snapshot")
}

// Recent returns the latest snapshots, newest first
func (r *ProgressRepository) Recent(ctx context.Context, limit int) ([]models.ProgressSnapshot, error) {
	var rows []progressRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT id, session_id, recorded_at, questions, correct, accuracy,
		       avg_character, avg_pinyin, avg_meaning, avg_audio,
		       overall_average, concept_count
		FROM progress_snapshots
		ORDER BY recorded_at DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get progress snapshots")
	}

	out := make([]models.ProgressSnapshot, len(rows))
	for i, row := range rows {
		p := row.ProgressSnapshot
		p.ModalityAverages[models.Character] = row.AvgCharacter
		p.ModalityAverages[models.Pinyin] = row.AvgPinyin
		p.ModalityAverages[models.Meaning] = row.AvgMeaning
		p.ModalityAverages[models.Audio] = row.AvgAudio
		out[i] = p
	}
	return out, nil
}
