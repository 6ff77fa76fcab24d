package bot

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/langseed/internal/database"
	"github.com/example/langseed/internal/quiz"
	"github.com/example/langseed/internal/store"
	"github.com/example/langseed/pkg/models"
)

const ownerChat = int64(1001)

var now = time.Date(2026, 10, 1, 19, 0, 0, 0, time.UTC)

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
	updates  chan tgbotapi.Update
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeAPI) lastText() string {
	msgs := f.messages()
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1].Text
}

func (f *fakeAPI) lastCallbackText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if cb, ok := f.requests[i].(tgbotapi.CallbackConfig); ok {
			return cb.Text
		}
	}
	return ""
}

type fakeRecorder struct {
	attempts []models.QuizAttempt
}

func (r *fakeRecorder) Record(a models.QuizAttempt) {
	r.attempts = append(r.attempts, a)
}

type fakeReminders struct {
	configured []models.Reminder
}

func (r *fakeReminders) Configure(rem models.Reminder) error {
	r.configured = append(r.configured, rem)
	return nil
}

type fixture struct {
	bot       *Bot
	api       *fakeAPI
	store     *store.Store
	history   *database.History
	recorder  *fakeRecorder
	reminders *fakeReminders
}

func vocabulary() []models.Concept {
	words := []struct{ word, pinyin, pos, meaning string }{
		{"你", "nǐ", "pronoun", "you"},
		{"好", "hǎo", "adjective", "good"},
		{"书", "shū", "noun", "book"},
		{"猫", "māo", "noun", "cat"},
		{"吃", "chī", "verb", "to eat"},
		{"大", "dà", "adjective", "big"},
	}
	out := make([]models.Concept, len(words))
	for i, w := range words {
		out[i] = word(w.word, w.pinyin, w.pos, w.meaning)
	}
	return out
}

func word(w, pinyin, pos, meaning string) models.Concept {
	c := models.Concept{ID: w, Word: w, Pinyin: pinyin, PartOfSpeech: pos, Meaning: meaning, Chapter: 1, Knowledge: 50}
	for _, m := range models.AllModalities {
		c.SetScore(m, models.ModalityScore{Knowledge: 50})
	}
	return c
}

func newFixture(t *testing.T, concepts []models.Concept) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.Connect(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	persister := database.NewPersister(db)
	require.NoError(t, persister.SaveConcepts(ctx, concepts))
	st, err := store.Open(ctx, persister)
	require.NoError(t, err)

	log, _ := test.NewNullLogger()
	f := &fixture{
		api:       &fakeAPI{updates: make(chan tgbotapi.Update)},
		store:     st,
		history:   database.NewHistory(db),
		recorder:  &fakeRecorder{},
		reminders: &fakeReminders{},
	}
	f.bot = New(f.api, DefaultConfig(ownerChat), Deps{
		Learner:   st,
		Generator: quiz.NewGenerator(quiz.NewRand(7)),
		Attempts:  f.recorder,
		History:   f.history,
		Reminders: f.reminders,
		Log:       log,
	})
	f.bot.now = func() time.Time { return now }
	return f
}

func command(chatID int64, text string) tgbotapi.Update {
	name := strings.SplitN(text, " ", 2)[0]
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func callback(chatID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func (f *fixture) send(u tgbotapi.Update) {
	f.bot.handleUpdate(context.Background(), u)
}

func (f *fixture) session(t *testing.T) models.QuizSession {
	t.Helper()
	f.bot.mu.Lock()
	defer f.bot.mu.Unlock()
	require.NotNil(t, f.bot.active, "no active session")
	return f.bot.active.session
}

func (f *fixture) concept(t *testing.T, id string) models.Concept {
	t.Helper()
	c, ok := f.store.Snapshot().Find(id)
	require.True(t, ok)
	return c
}

func TestQuizFlow(t *testing.T) {
	f := newFixture(t, vocabulary())

	f.send(command(ownerChat, "/quiz 2"))
	s := f.session(t)
	require.Len(t, s.Questions, 2)

	msgs := f.api.messages()
	require.NotEmpty(t, msgs)
	question := msgs[len(msgs)-1]
	assert.Contains(t, question.Text, "Question 1/2")
	keyboard, ok := question.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, keyboard.InlineKeyboard, len(s.Questions[0].Options))

	// answer the first question correctly
	q1 := s.Questions[0]
	f.send(callback(ownerChat, answerCallback{SessionID: s.ID, Question: 0, Option: q1.CorrectIndex}.String()))

	target := f.concept(t, q1.Target.ID)
	assert.Equal(t, 63, target.Score(q1.Task.Answer).Knowledge)
	assert.Equal(t, 56, target.Score(q1.Task.Question).Knowledge)
	require.Len(t, f.recorder.attempts, 1)
	assert.True(t, f.recorder.attempts[0].Correct)
	assert.Equal(t, 50, f.recorder.attempts[0].Context.AnswerKnowledge, "context is taken before the update")
	assert.Equal(t, "✅", f.api.lastCallbackText())
	assert.Contains(t, f.api.lastText(), "Question 2/2")

	// answer the second question wrongly
	q2 := s.Questions[1]
	wrong := (q2.CorrectIndex + 1) % len(q2.Options)
	f.send(callback(ownerChat, answerCallback{SessionID: s.ID, Question: 1, Option: wrong}.String()))

	require.Len(t, f.recorder.attempts, 2)
	assert.False(t, f.recorder.attempts[1].Correct)
	assert.Nil(t, f.bot.active)
	assert.Contains(t, f.api.lastText(), "Session complete: 1/2")

	recent, err := f.history.RecentProgress(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, s.ID, recent[0].SessionID)
	assert.Equal(t, 1, recent[0].Correct)
}

func TestStaleCallback(t *testing.T) {
	f := newFixture(t, vocabulary())
	f.send(command(ownerChat, "/quiz 3"))
	s := f.session(t)

	f.send(callback(ownerChat, answerCallback{SessionID: "old-session", Question: 0, Option: 0}.String()))
	assert.Equal(t, "This question is no longer active.", f.api.lastCallbackText())

	f.send(callback(ownerChat, answerCallback{SessionID: s.ID, Question: 2, Option: 0}.String()))
	assert.Equal(t, "This question is no longer active.", f.api.lastCallbackText())

	assert.Equal(t, 0, f.session(t).CurrentIndex)
	assert.Empty(t, f.recorder.attempts)
}

func TestForeignChatIgnored(t *testing.T) {
	f := newFixture(t, vocabulary())
	f.send(command(42, "/quiz"))
	f.send(callback(42, "quiz"))

	assert.Empty(t, f.api.messages())
	assert.Nil(t, f.bot.active)
}

func TestQuizWithoutConcepts(t *testing.T) {
	f := newFixture(t, nil)
	f.send(callback(ownerChat, "quiz"))

	assert.Contains(t, f.api.lastText(), "nothing to quiz")
	assert.Nil(t, f.bot.active)
}

func TestPauseResume(t *testing.T) {
	f := newFixture(t, vocabulary())

	f.send(command(ownerChat, "/pause 猫"))
	assert.True(t, f.concept(t, "猫").Paused)
	assert.Contains(t, f.api.lastText(), "猫 (māo) - cat")

	f.send(command(ownerChat, "/resume 猫"))
	assert.False(t, f.concept(t, "猫").Paused)

	f.send(command(ownerChat, "/pause 狗"))
	assert.Contains(t, f.api.lastText(), "don't know")

	f.send(command(ownerChat, "/pause"))
	assert.Equal(t, "usage: /pause <word>", f.api.lastText())
}

func TestSettingsCommands(t *testing.T) {
	f := newFixture(t, vocabulary())

	f.send(command(ownerChat, "/focus 3 0 1 0"))
	assert.Equal(t, models.FocusWeights{Character: 3, Meaning: 1}, f.store.Settings().Focus)

	f.send(command(ownerChat, "/focus 9 9"))
	assert.Contains(t, f.api.lastText(), "usage")
	assert.Equal(t, 3, f.store.Settings().Focus.Character)

	f.send(command(ownerChat, "/strategy least-tested"))
	assert.Equal(t, models.StrategyLeastTested, f.store.Settings().Strategy)

	f.send(command(ownerChat, "/difficulty easy"))
	assert.Equal(t, models.OptionEasy, f.store.Settings().OptionMode)

	f.send(command(ownerChat, "/reminder 20:30 Asia/Shanghai"))
	want := models.Reminder{Enabled: true, Hour: 20, Minute: 30, Timezone: "Asia/Shanghai"}
	assert.Equal(t, want, f.store.Settings().Reminder)
	require.Len(t, f.reminders.configured, 1)
	assert.Equal(t, want, f.reminders.configured[0])

	f.send(command(ownerChat, "/reminder off"))
	assert.False(t, f.store.Settings().Reminder.Enabled)
	assert.Equal(t, 20, f.store.Settings().Reminder.Hour)

	f.send(command(ownerChat, "/reminder 25:00"))
	assert.Contains(t, f.api.lastText(), "09:30")
	assert.Len(t, f.reminders.configured, 2)

	f.send(command(ownerChat, "/settings"))
	assert.Contains(t, f.api.lastText(), "Strategy: least_tested")
}

func TestStatsCommand(t *testing.T) {
	f := newFixture(t, vocabulary())
	f.send(command(ownerChat, "/pause 大"))
	f.send(command(ownerChat, "/stats"))

	text := f.api.lastText()
	assert.Contains(t, text, "Concepts: 6 (1 paused)")
	assert.Contains(t, text, "Due for review: 5")
	assert.Contains(t, text, "Overall knowledge: 50.0")
}

func TestUnknownCommand(t *testing.T) {
	f := newFixture(t, vocabulary())
	f.send(command(ownerChat, "/dance"))
	assert.Contains(t, f.api.lastText(), "Unknown command")

	f.send(tgbotapi.Update{Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: ownerChat}, Text: "hello"}})
	assert.Contains(t, f.api.lastText(), "/help")
}

func TestSendReminder(t *testing.T) {
	f := newFixture(t, vocabulary())
	require.NoError(t, f.bot.SendReminder(context.Background(), 3))

	msgs := f.api.messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, ownerChat, msgs[0].ChatID)
	assert.Contains(t, msgs[0].Text, "3 words are due")
}

func TestRun(t *testing.T) {
	f := newFixture(t, vocabulary())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error)
	go func() { done <- f.bot.Run(ctx) }()

	f.api.updates <- command(ownerChat, "/help")
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
	assert.Contains(t, f.api.lastText(), "/quiz [n]")
}

func (f *fixture) setFocus(t *testing.T, focus models.FocusWeights) {
	t.Helper()
	settings := f.store.Settings()
	settings.Focus = focus
	require.NoError(t, f.store.UpdateSettings(context.Background(), settings))
}

func TestQuiz_HomophonesNeverShareAButton(t *testing.T) {
	f := newFixture(t, []models.Concept{
		word("他", "tā", "pronoun", "he"),
		word("她", "tā", "pronoun", "she"),
	})
	f.setFocus(t, models.FocusWeights{Meaning: 3, Audio: 3})

	f.send(command(ownerChat, "/quiz 6"))
	s := f.session(t)
	require.Len(t, s.Questions, 6)
	for _, q := range s.Questions {
		labels := map[string]bool{}
		for _, o := range q.Options {
			label := optionLabel(o, q.Task.Answer, f.bot.config.MaxButtonLength)
			assert.False(t, labels[label], "duplicate button %q for task %v", label, q.Task)
			labels[label] = true
		}
		assert.Len(t, q.Options, 1, "task %v", q.Task)
	}

	msgs := f.api.messages()
	keyboard, ok := msgs[len(msgs)-1].ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	assert.Len(t, keyboard.InlineKeyboard, 1)
}

func TestQuiz_NoPinyinAudioTasks(t *testing.T) {
	f := newFixture(t, vocabulary())
	f.setFocus(t, models.FocusWeights{Character: 1, Pinyin: 3, Audio: 3})

	f.send(command(ownerChat, "/quiz 20"))
	for _, q := range f.session(t).Questions {
		assert.False(t, soundPair(q.Task), "task %v reads the same on both sides", q.Task)
	}
}

func TestDisplay_RawValues(t *testing.T) {
	c := models.Concept{Word: "中国", Pinyin: "Zhōngguó", Meaning: "China"}
	assert.Equal(t, "中国", display(c, models.Character))
	assert.Equal(t, "Zhōngguó", display(c, models.Pinyin))
	assert.Equal(t, "China", display(c, models.Meaning))
	assert.Equal(t, "🔊 Zhōngguó", display(c, models.Audio))
	assert.Equal(t, "Chi…", optionLabel(c, models.Meaning, 4))
}
