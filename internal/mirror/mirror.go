// Package mirror keeps a copy of the learner state in a remote Postgres
// database. Remote errors are returned to the caller and never stop a
// quiz.
package mirror

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/example/langseed/internal/database"
	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/internal/store"
	"github.com/example/langseed/pkg/models"
)

// Mirror is a remote copy of the learner state
type Mirror struct {
	db       *sqlx.DB
	concepts *database.ConceptRepository
	settings *database.SettingsRepository
	attempts *database.AttemptRepository
	log      logrus.FieldLogger
}

// Open connects to the remote Postgres database
func Open(dsn string, log logrus.FieldLogger) (*Mirror, error) {
	db, err := database.Connect(database.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote database: %w", err)
	}
	return New(db, log), nil
}

// New wraps an already migrated database
func New(db *sqlx.DB, log logrus.FieldLogger) *Mirror {
	return &Mirror{
		db:       db,
		concepts: database.NewConceptRepository(db),
		settings: database.NewSettingsRepository(db),
		attempts: database.NewAttemptRepository(db),
		log:      log,
	}
}

// Close closes the remote connection
func (m *Mirror) Close() error {
	return m.db.Close()
}

// Push uploads the whole state
func (m *Mirror) Push(ctx context.Context, state store.State) error {
	if err := m.settings.Save(ctx, state.Settings); err != nil {
		return err
	}
	if err := m.concepts.UpsertMany(ctx, state.Concepts); err != nil {
		return err
	}
	m.log.WithField("concepts", len(state.Concepts)).Debug("pushed state to remote")
	return nil
}

// Pull downloads the remote concepts and settings
func (m *Mirror) Pull(ctx context.Context) ([]models.Concept, models.Settings, error) {
	concepts, err := m.concepts.GetAll(ctx)
	if err != nil {
		return nil, models.Settings{}, err
	}
	settings, err := m.settings.Get(ctx)
	if err != nil {
		return nil, models.Settings{}, err
	}
	return concepts, settings, nil
}

// Create mirrors one quiz attempt, so the mirror can serve as an attempt
// log sink
func (m *Mirror) Create(ctx context.Context, a models.QuizAttempt) error {
	return m.attempts.Create(ctx, a)
}

// Target is the local state a sync reads from and writes to
type Target interface {
	Snapshot() store.State
	Replace(ctx context.Context, state store.State) error
}

// Result summarises a sync run
type Result struct {
	MergeStats
	Pushed int
}

// Sync merges the remote concepts into the local state and pushes the
// merged result back. Local settings win.
func (m *Mirror) Sync(ctx context.Context, target Target) (Result, error) {
	remote, _, err := m.Pull(ctx)
	if err != nil {
		return Result{}, err
	}

	local := target.Snapshot()
	merged, stats := Merge(local.Concepts, remote)
	// remote concepts carry overall knowledge under the remote focus
	merged = knowledge.Recompute(merged, local.Settings.Focus)
	next := store.State{Concepts: merged, Settings: local.Settings}

	if err := target.Replace(ctx, next); err != nil {
		return Result{}, fmt.Errorf("failed to apply merged state: %w", err)
	}
	if err := m.Push(ctx, next); err != nil {
		return Result{}, err
	}

	result := Result{MergeStats: stats, Pushed: len(merged)}
	m.log.WithFields(logrus.Fields{
		"local_newer":  stats.LocalNewer,
		"remote_newer": stats.RemoteNewer,
		"remote_only":  stats.RemoteOnly,
		"pushed":       result.Pushed,
	}).Info("synced with remote")
	return result, nil
}
