package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/example/langseed/internal/database"
	"github.com/example/langseed/internal/quiz"
	"github.com/example/langseed/internal/store"
	"github.com/example/langseed/pkg/models"
)

// API is the part of the Telegram client the bot uses
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Learner is the learner state the bot reads and updates
type Learner interface {
	Snapshot() store.State
	RecordAnswer(ctx context.Context, conceptID string, task models.TaskType, correct bool, now time.Time) (before, after models.Concept, err error)
	SetPaused(ctx context.Context, id string, paused bool, now time.Time) (models.Concept, error)
	UpdateSettings(ctx context.Context, settings models.Settings) error
}

// AttemptRecorder receives every answered question
type AttemptRecorder interface {
	Record(a models.QuizAttempt)
}

// History stores finished sessions and reports on past attempts
type History interface {
	CreateProgress(ctx context.Context, p models.ProgressSnapshot) error
	RecentProgress(ctx context.Context, limit int) ([]models.ProgressSnapshot, error)
	AccuracyByTask(ctx context.Context, since time.Time) ([]database.TaskAccuracy, error)
}

// ReminderScheduler applies reminder settings
type ReminderScheduler interface {
	Configure(r models.Reminder) error
}

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

const (
	callbackQuiz  = "quiz"
	callbackStats = "stats"
)

// MainMenuButtons returns the buttons for the main menu
func MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🎯 Quiz", CallbackData: callbackQuiz},
			{Text: "📊 Statistics", CallbackData: callbackStats},
		},
	}
}

// activeSession is the quiz currently shown in the chat
type activeSession struct {
	session   models.QuizSession
	messageID int
}

// Bot serves quizzes and reminders to a single Telegram chat
type Bot struct {
	api       API
	config    *BotConfig
	learner   Learner
	generator *quiz.Generator
	attempts  AttemptRecorder
	history   History
	reminders ReminderScheduler
	log       logrus.FieldLogger
	now       func() time.Time

	mu     sync.Mutex
	active *activeSession
}

// Deps are the collaborators of the bot
type Deps struct {
	Learner   Learner
	Generator *quiz.Generator
	Attempts  AttemptRecorder
	History   History
	Reminders ReminderScheduler
	Log       logrus.FieldLogger
}

// New creates a new bot instance
func New(api API, config *BotConfig, deps Deps) *Bot {
	return &Bot{
		api:       api,
		config:    config,
		learner:   deps.Learner,
		generator: deps.Generator,
		attempts:  deps.Attempts,
		history:   deps.History,
		reminders: deps.Reminders,
		log:       deps.Log,
		now:       time.Now,
	}
}

// Connect authorizes against the Telegram Bot API
func Connect(token string) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	return api, nil
}

// Run handles updates until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.PollTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.WithField("chat_id", b.config.ChatID).Info("bot started")
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// SendReminder implements scheduler.Notifier
func (b *Bot) SendReminder(_ context.Context, due int) error {
	msg := tgbotapi.NewMessage(b.config.ChatID, renderReminder(due))
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	if err := b.sendMessage(msg); err != nil {
		return err
	}
	b.log.WithField("due", due).Info("reminder sent")
	return nil
}

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		if update.Message.Chat == nil || update.Message.Chat.ID != b.config.ChatID {
			b.log.WithField("update_id", update.UpdateID).Debug("ignoring message from foreign chat")
			return
		}
		if err := b.HandleCommand(ctx, update.Message); err != nil {
			b.log.WithError(err).Warn("failed to handle command")
		}
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		if cb.Message == nil || cb.Message.Chat == nil || cb.Message.Chat.ID != b.config.ChatID {
			b.log.WithField("update_id", update.UpdateID).Debug("ignoring callback from foreign chat")
			return
		}
		if err := b.handleCallbackQuery(ctx, cb); err != nil {
			b.log.WithError(err).Warn("failed to handle callback")
		}
	}
}

// handleCallbackQuery handles callback queries from buttons
func (b *Bot) handleCallbackQuery(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	switch cb.Data {
	case callbackQuiz:
		b.answerCallback(cb.ID, "")
		return b.startQuiz(ctx, 0)
	case callbackStats:
		b.answerCallback(cb.ID, "")
		return b.sendStats(ctx)
	}

	data, err := parseAnswerCallback(cb.Data)
	if err != nil {
		b.answerCallback(cb.ID, "Unknown action")
		return err
	}
	return b.handleAnswer(ctx, cb, data)
}

func (b *Bot) sendText(text string) error {
	return b.sendMessage(tgbotapi.NewMessage(b.config.ChatID, text))
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.WithError(err).Debug("failed to answer callback")
	}
}
