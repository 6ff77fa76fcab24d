package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/example/langseed/internal/config"
	"github.com/example/langseed/internal/database"
	"github.com/example/langseed/internal/mirror"
	"github.com/example/langseed/internal/store"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:           "langseed",
	Short:         "Mandarin vocabulary quizzes over Telegram",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./langseed.yaml)")
}

// app holds what every command needs: configuration, a logger and the
// learner's local state.
type app struct {
	cfg   *config.Config
	log   *logrus.Logger
	db    *sqlx.DB
	store *store.Store
}

func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.Load(configFile, ".env")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := config.NewLogger(cfg.Log, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	db, err := database.Connect(database.DriverSQLite, cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, database.NewPersister(db))
	if err != nil {
		db.Close()
		return nil, err
	}
	log.WithField("path", cfg.Database.Path).Debug("local database opened")
	return &app{cfg: cfg, log: log, db: db, store: st}, nil
}

func (a *app) openMirror() (*mirror.Mirror, error) {
	if !a.cfg.Remote.Enabled() {
		return nil, fmt.Errorf("remote.dsn is not configured")
	}
	return mirror.Open(a.cfg.Remote.DSN, a.log)
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.WithError(err).Warn("failed to close database")
	}
}
