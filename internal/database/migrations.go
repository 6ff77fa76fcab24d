package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// migration is one step of the schema history. Steps run once, in order,
// each in its own transaction.
type migration struct {
	version    int
	statements []string
}

// Versions 1-3 reproduce how concept records grew: a single knowledge
// column at first, then the paused flag and source, then per-modality
// scores seeded from the old single value.
var migrations = []migration{
	{
		version: 1,
		statements: []string{`
			CREATE TABLE IF NOT EXISTS concepts (
				id TEXT PRIMARY KEY,
				word TEXT NOT NULL,
				pinyin TEXT NOT NULL,
				part_of_speech TEXT NOT NULL DEFAULT 'other',
				meaning TEXT NOT NULL,
				chapter INTEGER NOT NULL DEFAULT 0,
				knowledge INTEGER NOT NULL DEFAULT 0,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE INDEX IF NOT EXISTS idx_concepts_word ON concepts (word)`,
		},
	},
	{
		version: 2,
		statements: []string{
			`ALTER TABLE concepts ADD COLUMN paused BOOLEAN NOT NULL DEFAULT FALSE`,
			`ALTER TABLE concepts ADD COLUMN source TEXT NOT NULL DEFAULT ''`,
		},
	},
	{
		version: 3,
		statements: []string{`
			CREATE TABLE IF NOT EXISTS concept_modalities (
				concept_id TEXT NOT NULL REFERENCES concepts (id) ON DELETE CASCADE,
				modality INTEGER NOT NULL,
				knowledge INTEGER NOT NULL DEFAULT 0,
				attempts INTEGER NOT NULL DEFAULT 0,
				successes INTEGER NOT NULL DEFAULT 0,
				last_attempt TIMESTAMP NULL,
				PRIMARY KEY (concept_id, modality)
			)`, `
			INSERT INTO concept_modalities (concept_id, modality, knowledge, attempts, successes, last_attempt)
			SELECT c.id, m.modality, c.knowledge, 0, 0, NULL
			FROM concepts c
			CROSS JOIN (SELECT 0 AS modality UNION ALL SELECT 1 UNION ALL SELECT 2 UNION ALL SELECT 3) m`,
		},
	},
	{
		version: 4,
		statements: []string{`
			CREATE TABLE IF NOT EXISTS settings (
				id INTEGER PRIMARY KEY,
				focus_character INTEGER NOT NULL,
				focus_pinyin INTEGER NOT NULL,
				focus_meaning INTEGER NOT NULL,
				focus_audio INTEGER NOT NULL,
				strategy TEXT NOT NULL,
				option_mode TEXT NOT NULL,
				question_count INTEGER NOT NULL,
				option_count INTEGER NOT NULL,
				reminder_enabled BOOLEAN NOT NULL DEFAULT FALSE,
				reminder_hour INTEGER NOT NULL DEFAULT 9,
				reminder_minute INTEGER NOT NULL DEFAULT 0,
				reminder_timezone TEXT NOT NULL DEFAULT 'UTC',
				voice TEXT NOT NULL DEFAULT '',
				speech_rate DOUBLE PRECISION NOT NULL DEFAULT 1,
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version: 5,
		statements: []string{`
			CREATE TABLE IF NOT EXISTS quiz_attempts (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				concept_id TEXT NOT NULL,
				question_modality INTEGER NOT NULL,
				answer_modality INTEGER NOT NULL,
				correct BOOLEAN NOT NULL,
				option_count INTEGER NOT NULL,
				answered_at TIMESTAMP NOT NULL,
				context TEXT NOT NULL DEFAULT '{}'
			)`,
			`CREATE INDEX IF NOT EXISTS idx_quiz_attempts_answered_at ON quiz_attempts (answered_at)`,
		},
	},
	{
		version: 6,
		statements: []string{`
			CREATE TABLE IF NOT EXISTS progress_snapshots (
				id TEXT PRIMARY KEY,
				session_id TEXT NOT NULL,
				recorded_at TIMESTAMP NOT NULL,
				questions INTEGER NOT NULL,
				correct INTEGER NOT NULL,
				accuracy DOUBLE PRECISION NOT NULL,
				avg_character DOUBLE PRECISION NOT NULL,
				avg_pinyin DOUBLE PRECISION NOT NULL,
				avg_meaning DOUBLE PRECISION NOT NULL,
				avg_audio DOUBLE PRECISION NOT NULL,
				overall_average DOUBLE PRECISION NOT NULL,
				concept_count INTEGER NOT NULL
			)`,
		},
	},
}

// LatestVersion is the schema version after all migrations
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

// Migrate applies every migration newer than the recorded schema version
func Migrate(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to create schema_migrations table")
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(db, m); err != nil {
			return errors.Wrapf(err, "failed to apply migration %d", m.version)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied migration, 0 for a new database
func SchemaVersion(db *sqlx.DB) (int, error) {
	var version int
	err := db.Get(&version, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err != nil {
		return 0, errors.Wrap(err, "failed to read schema version")
	}
	return version, nil
}

func apply(db *sqlx.DB, m migration) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range m.statements {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(tx.Rebind("INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)"), m.version, time.Now().UTC()); err != nil {
		return err
	}
	return tx.Commit()
}
