package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/langseed/pkg/models"
)

// AttemptRepository stores the quiz attempt log
type AttemptRepository struct {
	db *sqlx.DB
}

// NewAttemptRepository creates a new repository instance
func NewAttemptRepository(db *sqlx.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

type attemptRow struct {
	models.QuizAttempt
	RawContext string `db:"context"`
}

// TaskAccuracy aggregates attempts for one task type
type TaskAccuracy struct {
	Task     models.TaskType
	Attempts int
	Correct  int
}

// Accuracy is the fraction of correct attempts
func (t TaskAccuracy) Accuracy() float64 {
	if t.Attempts == 0 {
		return 0
	}
	return float64(t.Correct) / float64(t.Attempts)
}

// Create inserts a new attempt. Re-inserting the same attempt is a no-op.
func (r *AttemptRepository) Create(ctx context.Context, a models.QuizAttempt) error {
	raw, err := json.Marshal(a.Context)
	if err != nil {
		return errors.Wrap(err, "failed to encode attempt context")
	}
	query := r.db.Rebind(`
		INSERT INTO quiz_attempts (
			id, session_id, concept_id, question_modality, answer_modality,
			correct, option_count, answered_at, context
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`)
	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.SessionID, a.ConceptID, int(a.QuestionModality), int(a.AnswerModality),
		a.Correct, a.OptionCount, a.AnsweredAt.UTC(), string(raw),
	)
	return errors.Wrap(err, "failed to create quiz attempt")
}

// Recent returns the latest attempts, newest first
func (r *AttemptRepository) Recent(ctx context.Context, limit int) ([]models.QuizAttempt, error) {
	var rows []attemptRow
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT id, session_id, concept_id, question_modality, answer_modality,
		       correct, option_count, answered_at, context
		FROM quiz_attempts
		ORDER BY answered_at DESC
		LIMIT ?
	`), limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get quiz attempts")
	}

	attempts := make([]models.QuizAttempt, len(rows))
	for i, row := range rows {
		a := row.QuizAttempt
		if err := json.Unmarshal([]byte(row.RawContext), &a.Context); err != nil {
			return nil, errors.Wrapf(err, "failed to decode context of attempt %s", a.ID)
		}
		attempts[i] = a
	}
	return attempts, nil
}

// AccuracyByTask aggregates attempts since the given time per task type
func (r *AttemptRepository) AccuracyByTask(ctx context.Context, since time.Time) ([]TaskAccuracy, error) {
	var rows []struct {
		Question int `db:"question_modality"`
		Answer   int `db:"answer_modality"`
		Attempts int `db:"attempts"`
		Correct  int `db:"correct"`
	}
	err := r.db.SelectContext(ctx, &rows, r.db.Rebind(`
		SELECT question_modality, answer_modality,
		       COUNT(*) AS attempts,
		       SUM(CASE WHEN correct THEN 1 ELSE 0 END) AS correct
		FROM quiz_attempts
		WHERE answered_at >= ?
		GROUP BY question_modality, answer_modality
		ORDER BY question_modality, answer_modality
	`), since.UTC())
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate quiz attempts")
	}

	out := make([]TaskAccuracy, len(rows))
	for i, row := range rows {
		out[i] = TaskAccuracy{
			Task:     models.TaskType{Question: models.Modality(row.Question), Answer: models.Modality(row.Answer)},
			Attempts: row.Attempts,
			Correct:  row.Correct,
		}
	}
	return out, nil
}
