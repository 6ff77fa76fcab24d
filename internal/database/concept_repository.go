package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/langseed/pkg/models"
)

// ConceptRepository handles database operations for concepts and their
// per-modality scores
type ConceptRepository struct {
	db *sqlx.DB
}

// NewConceptRepository creates a new repository instance
func NewConceptRepository(db *sqlx.DB) *ConceptRepository {
	return &ConceptRepository{db: db}
}

type modalityRow struct {
	ConceptID   string     `db:"concept_id"`
	Modality    int        `db:"modality"`
	Knowledge   int        `db:"knowledge"`
	Attempts    int        `db:"attempts"`
	Successes   int        `db:"successes"`
	LastAttempt *time.Time `db:"last_attempt"`
}

const conceptColumns = `id, word, pinyin, part_of_speech, meaning, chapter, source, paused, knowledge, created_at, updated_at`

// GetAll returns every concept ordered by chapter and word
func (r *ConceptRepository) GetAll(ctx context.Context) ([]models.Concept, error) {
	var concepts []models.Concept
	err := r.db.SelectContext(ctx, &concepts, "SELECT "+conceptColumns+" FROM concepts ORDER BY chapter, word, id")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get concepts")
	}

	var rows []modalityRow
	err = r.db.SelectContext(ctx, &rows, "SELECT concept_id, modality, knowledge, attempts, successes, last_attempt FROM concept_modalities")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get modality scores")
	}

	index := make(map[string]int, len(concepts))
	for i, c := range concepts {
		index[c.ID] = i
	}
	for _, row := range rows {
		i, ok := index[row.ConceptID]
		if !ok || !models.Modality(row.Modality).Valid() {
			continue
		}
		concepts[i].SetScore(models.Modality(row.Modality), row.score())
	}
	return concepts, nil
}

// GetByID returns a concept by ID
func (r *ConceptRepository) GetByID(ctx context.Context, id string) (*models.Concept, error) {
	var c models.Concept
	err := r.db.GetContext(ctx, &c, r.db.Rebind("SELECT "+conceptColumns+" FROM concepts WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrConceptNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get concept by ID")
	}

	var rows []modalityRow
	err = r.db.SelectContext(ctx, &rows, r.db.Rebind("SELECT concept_id, modality, knowledge, attempts, successes, last_attempt FROM concept_modalities WHERE concept_id = ?"), id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get modality scores")
	}
	for _, row := range rows {
		if models.Modality(row.Modality).Valid() {
			c.SetScore(models.Modality(row.Modality), row.score())
		}
	}
	return &c, nil
}

// Upsert inserts or replaces a concept together with its scores
func (r *ConceptRepository) Upsert(ctx context.Context, c models.Concept) error {
	return r.UpsertMany(ctx, []models.Concept{c})
}

// UpsertMany inserts or replaces concepts in a single transaction
func (r *ConceptRepository) UpsertMany(ctx context.Context, concepts []models.Concept) error {
	if len(concepts) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	conceptQuery := tx.Rebind(`
		INSERT INTO concepts (` + conceptColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			word = excluded.word,
			pinyin = excluded.pinyin,
			part_of_speech = excluded.part_of_speech,
			meaning = excluded.meaning,
			chapter = excluded.chapter,
			source = excluded.source,
			paused = excluded.paused,
			knowledge = excluded.knowledge,
			updated_at = excluded.updated_at
	`)
	scoreQuery := tx.Rebind(`
		INSERT INTO concept_modalities (concept_id, modality, knowledge, attempts, successes, last_attempt)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (concept_id, modality) DO UPDATE SET
			knowledge = excluded.knowledge,
			attempts = excluded.attempts,
			successes = excluded.successes,
			last_attempt = excluded.last_attempt
	`)

	now := time.Now().UTC()
	for _, c := range concepts {
		created, updated := c.CreatedAt, c.UpdatedAt
		if created.IsZero() {
			created = now
		}
		if updated.IsZero() {
			updated = created
		}
		_, err := tx.ExecContext(ctx, conceptQuery,
			c.ID, c.Word, c.Pinyin, c.PartOfSpeech, c.Meaning, c.Chapter, c.Source,
			c.Paused, c.Knowledge, created.UTC(), updated.UTC(),
		)
		if err != nil {
			return errors.Wrapf(err, "failed to save concept %s", c.ID)
		}
		for _, m := range models.AllModalities {
			s := c.Score(m)
			var last *time.Time
			if s.LastAttempt != nil {
				t := s.LastAttempt.UTC()
				last = &t
			}
			_, err := tx.ExecContext(ctx, scoreQuery, c.ID, int(m), s.Knowledge, s.Attempts, s.Successes, last)
			if err != nil {
				return errors.Wrapf(err, "failed to save %s score of concept %s", m, c.ID)
			}
		}
	}
	return errors.Wrap(tx.Commit(), "failed to commit concepts")
}

// Delete removes a concept and its scores
func (r *ConceptRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM concept_modalities WHERE concept_id = ?"), id); err != nil {
		return errors.Wrap(err, "failed to delete modality scores")
	}
	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM concepts WHERE id = ?"), id)
	if err != nil {
		return errors.Wrap(err, "failed to delete concept")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.ErrConceptNotFound
	}
	return errors.Wrap(tx.Commit(), "failed to commit delete")
}

// Count returns the number of stored concepts
func (r *ConceptRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM concepts"); err != nil {
		return 0, errors.Wrap(err, "failed to count concepts")
	}
	return n, nil
}

func (row modalityRow) score() models.ModalityScore {
	return models.ModalityScore{
		Knowledge:   row.Knowledge,
		Attempts:    row.Attempts,
		Successes:   row.Successes,
		LastAttempt: row.LastAttempt,
	}
}
