package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/example/langseed/pkg/models"
)

// SettingsRepository stores the single settings row
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new repository instance
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

type settingsRow struct {
	FocusCharacter   int     `db:"focus_character"`
	FocusPinyin      int     `db:"focus_pinyin"`
	FocusMeaning     int     `db:"focus_meaning"`
	FocusAudio       int     `db:"focus_audio"`
	Strategy         string  `db:"strategy"`
	OptionMode       string  `db:"option_mode"`
	QuestionCount    int     `db:"question_count"`
	OptionCount      int     `db:"option_count"`
	ReminderEnabled  bool    `db:"reminder_enabled"`
	ReminderHour     int     `db:"reminder_hour"`
	ReminderMinute   int     `db:"reminder_minute"`
	ReminderTimezone string  `db:"reminder_timezone"`
	Voice            string  `db:"voice"`
	SpeechRate       float64 `db:"speech_rate"`
}

// Get returns the stored settings, or the defaults if none were saved yet
func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	var row settingsRow
	err := r.db.GetContext(ctx, &row, `
		SELECT focus_character, focus_pinyin, focus_meaning, focus_audio,
		       strategy, option_mode, question_count, option_count,
		       reminder_enabled, reminder_hour, reminder_minute, reminder_timezone,
		       voice, speech_rate
		FROM settings
		WHERE id = 1
	`)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.Settings{}, errors.Wrap(err, "failed to get settings")
	}
	return row.settings(), nil
}

// Save replaces the stored settings
func (r *SettingsRepository) Save(ctx context.Context, s models.Settings) error {
	query := r.db.Rebind(`
		INSERT INTO settings (
			id, focus_character, focus_pinyin, focus_meaning, focus_audio,
			strategy, option_mode, question_count, option_count,
			reminder_enabled, reminder_hour, reminder_minute, reminder_timezone,
			voice, speech_rate, updated_at
		) VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			focus_character = excluded.focus_character,
			focus_pinyin = excluded.focus_pinyin,
			focus_meaning = excluded.focus_meaning,
			focus_audio = excluded.focus_audio,
			strategy = excluded.strategy,
			option_mode = excluded.option_mode,
			question_count = excluded.question_count,
			option_count = excluded.option_count,
			reminder_enabled = excluded.reminder_enabled,
			reminder_hour = excluded.reminder_hour,
			reminder_minute = excluded.reminder_minute,
			reminder_timezone = excluded.reminder_timezone,
			voice = excluded.voice,
			speech_rate = excluded.speech_rate,
			updated_at = excluded.updated_at
	`)
	_, err := r.db.ExecContext(ctx, query,
		s.Focus.Character, s.Focus.Pinyin, s.Focus.Meaning, s.Focus.Audio,
		string(s.Strategy), string(s.OptionMode), s.QuestionCount, s.OptionCount,
		s.Reminder.Enabled, s.Reminder.Hour, s.Reminder.Minute, s.Reminder.Timezone,
		s.Voice, s.SpeechRate, time.Now().UTC(),
	)
	return errors.Wrap(err, "failed to save settings")
}

func (row settingsRow) settings() models.Settings {
	return models.Settings{
		Focus: models.FocusWeights{
			Character: row.FocusCharacter,
			Pinyin:    row.FocusPinyin,
			Meaning:   row.FocusMeaning,
			Audio:     row.FocusAudio,
		},
		Strategy:      models.SelectionStrategy(row.Strategy),
		OptionMode:    models.OptionMode(row.OptionMode),
		QuestionCount: row.QuestionCount,
		OptionCount:   row.OptionCount,
		Reminder: models.Reminder{
			Enabled:  row.ReminderEnabled,
			Hour:     row.ReminderHour,
			Minute:   row.ReminderMinute,
			Timezone: row.ReminderTimezone,
		},
		Voice:      row.Voice,
		SpeechRate: row.SpeechRate,
	}
}
