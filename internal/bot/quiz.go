package bot

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/example/langseed/internal/analytics"
	"github.com/example/langseed/pkg/models"
)

// startQuiz replaces any running session with a new one. n overrides the
// configured question count when positive.
func (b *Bot) startQuiz(ctx context.Context, n int) error {
	state := b.learner.Snapshot()
	opts := quizOptions(state.Settings, b.config.MaxButtonLength)
	if n > 0 {
		opts.QuestionCount = n
	}

	session := b.generator.Generate(state.Concepts, opts, b.now())
	if len(session.Questions) == 0 {
		return b.sendText("There is nothing to quiz yet. Import vocabulary with `langseed import` or /resume a paused word.")
	}

	b.mu.Lock()
	b.active = &activeSession{session: session}
	b.mu.Unlock()

	b.log.WithFields(logrus.Fields{
		"session_id": session.ID,
		"questions":  len(session.Questions),
		"strategy":   opts.Strategy,
	}).Info("quiz started")
	return b.sendQuestion()
}

func (b *Bot) sendQuestion() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.active == nil {
		return nil
	}
	s := &b.active.session
	q := s.Current()
	if q == nil {
		return nil
	}

	rows := make([][]MenuButton, len(q.Options))
	for i, opt := range q.Options {
		data := answerCallback{SessionID: s.ID, Question: s.CurrentIndex, Option: i}
		rows[i] = []MenuButton{{Text: optionLabel(opt, q.Task.Answer, b.config.MaxButtonLength), CallbackData: data.String()}}
	}
	msg := tgbotapi.NewMessage(b.config.ChatID, renderQuestion(s))
	msg.ReplyMarkup = createKeyboard(rows)

	sent, err := b.api.Send(msg)
	if err != nil {
		return err
	}
	b.active.messageID = sent.MessageID
	return nil
}

// handleAnswer records the learner's choice. The session only moves on
// after the knowledge update; collaborator failures are logged and do not
// stop the session.
func (b *Bot) handleAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, data answerCallback) error {
	b.mu.Lock()
	active := b.active
	if active == nil || active.session.ID != data.SessionID || active.session.CurrentIndex != data.Question || active.session.IsComplete() {
		b.mu.Unlock()
		b.answerCallback(cb.ID, "This question is no longer active.")
		return nil
	}

	now := b.now()
	s := &active.session
	q := *s.Current()
	rec, err := s.Answer(data.Option, now)
	if err != nil {
		b.mu.Unlock()
		if errors.Is(err, models.ErrAlreadyAnswered) || errors.Is(err, models.ErrInvalidOption) {
			b.answerCallback(cb.ID, "This answer was not accepted.")
			return nil
		}
		return err
	}

	concepts := b.learner.Snapshot().Concepts
	before, _, err := b.learner.RecordAnswer(ctx, q.Target.ID, q.Task, rec.Correct, now)
	if err != nil {
		b.log.WithError(err).WithField("concept_id", q.Target.ID).Warn("failed to update knowledge")
	} else {
		b.attempts.Record(analytics.BuildAttempt(s.ID, q, rec.SelectedIndex, before, concepts, now))
	}

	complete, err := s.Advance(now)
	messageID := active.messageID
	session := *s
	if complete {
		b.active = nil
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}

	if rec.Correct {
		b.answerCallback(cb.ID, "✅")
	} else {
		b.answerCallback(cb.ID, "❌")
	}
	edit := tgbotapi.NewEditMessageText(b.config.ChatID, messageID, renderFeedback(q, rec))
	if err := b.sendMessage(edit); err != nil {
		b.log.WithError(err).Debug("failed to show feedback")
	}

	if complete {
		return b.finishSession(ctx, &session)
	}
	return b.sendQuestion()
}

func (b *Bot) finishSession(ctx context.Context, s *models.QuizSession) error {
	now := b.now()
	progress := analytics.BuildProgress(*s, b.learner.Snapshot().Concepts, now)
	if err := b.history.CreateProgress(ctx, progress); err != nil {
		b.log.WithError(err).Warn("failed to record session progress")
	}
	b.log.WithFields(logrus.Fields{
		"session_id": s.ID,
		"correct":    progress.Correct,
		"questions":  progress.Questions,
	}).Info("quiz finished")

	msg := tgbotapi.NewMessage(b.config.ChatID, renderSummary(s, progress))
	msg.ReplyMarkup = createKeyboard(MainMenuButtons())
	return b.sendMessage(msg)
}
