package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/langseed/internal/analytics"
	"github.com/example/langseed/internal/bot"
	"github.com/example/langseed/internal/database"
	"github.com/example/langseed/internal/quiz"
	"github.com/example/langseed/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot and the daily reminder",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		a, err := openApp(ctx, cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		if err := a.cfg.RequireTelegram(); err != nil {
			return err
		}

		recorder := analytics.NewRecorder(a.log, a.cfg.Analytics.Timeout, database.NewAttemptRepository(a.db))
		if a.cfg.Remote.Enabled() {
			m, err := a.openMirror()
			if err != nil {
				a.log.WithError(err).Warn("remote mirror unavailable, attempts are only stored locally")
			} else {
				recorder.AddSink(m)
			}
		}
		// drains pending writes, then closes the mirror
		defer func() {
			if err := recorder.Close(); err != nil {
				a.log.WithError(err).Warn("failed to close attempt sinks")
			}
		}()

		api, err := bot.Connect(a.cfg.Telegram.Token)
		if err != nil {
			return err
		}
		a.log.WithField("account", api.Self.UserName).Info("authorized on Telegram")

		reminders := scheduler.New(a.store, nil, a.log)
		b := bot.New(api, bot.DefaultConfig(a.cfg.Telegram.ChatID), bot.Deps{
			Learner:   a.store,
			Generator: quiz.NewGenerator(quiz.NewTimeRand()),
			Attempts:  recorder,
			History:   database.NewHistory(a.db),
			Reminders: reminders,
			Log:       a.log,
		})
		reminders.SetNotifier(b)

		if err := reminders.Configure(a.store.Settings().Reminder); err != nil {
			a.log.WithError(err).Warn("invalid reminder settings, reminder disabled")
		}
		if next, ok := reminders.NextRun(); ok {
			a.log.WithField("next_run", next).Info("reminder scheduled")
		}
		reminders.Start()
		defer reminders.Stop()

		err = b.Run(ctx)
		if err == nil || err == context.Canceled {
			a.log.Info("shutting down")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
