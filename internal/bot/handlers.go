package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/langseed/pkg/models"
)

const statsWindow = 7 * 24 * time.Hour

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	if !message.IsCommand() {
		return b.sendText("Send /help to see what I can do.")
	}

	args := strings.TrimSpace(message.CommandArguments())
	switch message.Command() {
	case "start", "help":
		return b.handleHelp()
	case "quiz":
		return b.handleQuiz(ctx, args)
	case "stats":
		return b.sendStats(ctx)
	case "settings":
		return b.sendText(renderSettings(b.learner.Snapshot().Settings))
	case "pause":
		return b.handlePause(ctx, args, true)
	case "resume":
		return b.handlePause(ctx, args, false)
	case "focus":
		return b.handleFocus(ctx, args)
	case "strategy":
		return b.handleStrategy(ctx, args)
	case "difficulty":
		return b.handleDifficulty(ctx, args)
	case "reminder":
		return b.handleReminder(ctx, args)
	default:
		return b.sendText("Unknown command. Send /help for the list of commands.")
	}
}

func (b *Bot) handleHelp() error {
	msg := tgbotapi.NewMessage(b.config.ChatID, helpText)
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleQuiz(ctx context.Context, args string) error {
	n, err := parseQuizCount(args, 0)
	if err != nil {
		return b.sendText(err.Error())
	}
	return b.startQuiz(ctx, n)
}

func (b *Bot) sendStats(ctx context.Context) error {
	now := b.now()
	state := b.learner.Snapshot()

	accuracy, err := b.history.AccuracyByTask(ctx, now.Add(-statsWindow))
	if err != nil {
		b.log.WithError(err).Warn("failed to load attempt accuracy")
	}
	recent, err := b.history.RecentProgress(ctx, b.config.RecentSessions)
	if err != nil {
		b.log.WithError(err).Warn("failed to load recent sessions")
	}

	msg := tgbotapi.NewMessage(b.config.ChatID, renderStats(state, accuracy, recent, now))
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handlePause(ctx context.Context, word string, paused bool) error {
	if word == "" {
		if paused {
			return b.sendText("usage: /pause <word>")
		}
		return b.sendText("usage: /resume <word>")
	}
	c, ok := b.learner.Snapshot().FindByWord(word)
	if !ok {
		return b.sendText(fmt.Sprintf("I don't know the word %q.", word))
	}
	c, err := b.learner.SetPaused(ctx, c.ID, paused, b.now())
	if err != nil {
		if errors.Is(err, models.ErrConceptNotFound) {
			return b.sendText(fmt.Sprintf("I don't know the word %q.", word))
		}
		return err
	}
	if paused {
		return b.sendText(fmt.Sprintf("⏸ %s will not be quizzed until you /resume it.", describe(c)))
	}
	return b.sendText(fmt.Sprintf("▶️ %s is back in your quizzes.", describe(c)))
}

func (b *Bot) updateSettings(ctx context.Context, change func(*models.Settings)) (models.Settings, error) {
	settings := b.learner.Snapshot().Settings
	change(&settings)
	return settings, b.learner.UpdateSettings(ctx, settings)
}

func (b *Bot) handleFocus(ctx context.Context, args string) error {
	focus, err := parseFocus(args)
	if err != nil {
		return b.sendText(err.Error())
	}
	settings, err := b.updateSettings(ctx, func(s *models.Settings) { s.Focus = focus })
	if err != nil {
		return err
	}
	return b.sendText(renderSettings(settings))
}

func (b *Bot) handleStrategy(ctx context.Context, args string) error {
	strategy, err := parseStrategy(args)
	if err != nil {
		return b.sendText(err.Error())
	}
	settings, err := b.updateSettings(ctx, func(s *models.Settings) { s.Strategy = strategy })
	if err != nil {
		return err
	}
	return b.sendText(renderSettings(settings))
}

func (b *Bot) handleDifficulty(ctx context.Context, args string) error {
	mode, err := parseOptionMode(args)
	if err != nil {
		return b.sendText(err.Error())
	}
	settings, err := b.updateSettings(ctx, func(s *models.Settings) { s.OptionMode = mode })
	if err != nil {
		return err
	}
	return b.sendText(renderSettings(settings))
}

func (b *Bot) handleReminder(ctx context.Context, args string) error {
	current := b.learner.Snapshot().Settings.Reminder
	reminder, err := parseReminder(args, current)
	if err != nil {
		return b.sendText(err.Error())
	}
	if err := b.reminders.Configure(reminder); err != nil {
		return b.sendText(fmt.Sprintf("Could not schedule the reminder: %v", err))
	}
	settings, err := b.updateSettings(ctx, func(s *models.Settings) { s.Reminder = reminder })
	if err != nil {
		// keep the schedule in line with the saved settings
		if cerr := b.reminders.Configure(current); cerr != nil {
			b.log.WithError(cerr).Warn("failed to restore reminder")
		}
		return err
	}
	return b.sendText(renderSettings(settings))
}
