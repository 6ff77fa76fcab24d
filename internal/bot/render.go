package bot

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/langseed/internal/database"
	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/internal/quiz"
	"github.com/example/langseed/internal/scheduler"
	"github.com/example/langseed/internal/store"
	"github.com/example/langseed/pkg/models"
)

const audioMarker = "🔊 "

// display renders one modality of c as text. Audio cannot be played in a
// chat, so it is shown as a pronunciation.
func display(c models.Concept, m models.Modality) string {
	switch m {
	case models.Pinyin:
		return c.Pinyin
	case models.Meaning:
		return c.Meaning
	case models.Audio:
		return audioMarker + c.Pinyin
	}
	return c.Word
}

// soundPair reports tasks between pinyin and audio, which read the same
// here since audio is rendered as pinyin
func soundPair(t models.TaskType) bool {
	return (t.Question == models.Pinyin && t.Answer == models.Audio) ||
		(t.Question == models.Audio && t.Answer == models.Pinyin)
}

// quizOptions are the session options for a text chat: options must look
// different on the buttons, not only in storage.
func quizOptions(s models.Settings, maxLabel int) quiz.Options {
	opts := quiz.OptionsFromSettings(s)
	opts.Skip = soundPair
	opts.Label = func(c models.Concept, m models.Modality) string {
		return strings.ToLower(strings.TrimSpace(optionLabel(c, m, maxLabel)))
	}
	return opts
}

func modalityNoun(m models.Modality) string {
	switch m {
	case models.Character:
		return "character"
	case models.Pinyin:
		return "pinyin"
	case models.Meaning:
		return "meaning"
	case models.Audio:
		return "pronunciation"
	}
	return m.String()
}

func renderQuestion(s *models.QuizSession) string {
	q := s.Current()
	if q == nil {
		return ""
	}
	return fmt.Sprintf("Question %d/%d\n\n%s\n\nChoose the %s:",
		s.CurrentIndex+1, len(s.Questions),
		display(q.Target, q.Task.Question),
		modalityNoun(q.Task.Answer))
}

func optionLabel(c models.Concept, m models.Modality, max int) string {
	label := display(c, m)
	if max > 0 && utf8.RuneCountInString(label) > max {
		runes := []rune(label)
		label = string(runes[:max-1]) + "…"
	}
	return label
}

func describe(c models.Concept) string {
	return fmt.Sprintf("%s (%s) - %s", c.Word, c.Pinyin, c.Meaning)
}

func renderFeedback(q models.QuizQuestion, rec models.AnswerRecord) string {
	var b strings.Builder
	b.WriteString(display(q.Target, q.Task.Question))
	b.WriteString("\n\n")
	if rec.Correct {
		b.WriteString("✅ Correct!")
	} else {
		fmt.Fprintf(&b, "❌ You chose: %s\nAnswer: %s",
			display(q.Options[rec.SelectedIndex], q.Task.Answer),
			display(q.Target, q.Task.Answer))
	}
	b.WriteString("\n")
	b.WriteString(describe(q.Target))
	return b.String()
}

func renderSummary(s *models.QuizSession, p models.ProgressSnapshot) string {
	return fmt.Sprintf("🏁 Session complete: %d/%d correct (%.0f%%)\nOverall knowledge: %.1f",
		s.CorrectCount(), len(s.Questions), s.Accuracy()*100, p.OverallAverage)
}

func renderStats(state store.State, accuracy []database.TaskAccuracy, recent []models.ProgressSnapshot, now time.Time) string {
	paused := 0
	for _, c := range state.Concepts {
		if c.Paused {
			paused++
		}
	}
	avg := knowledge.Averages(state.Concepts)

	var b strings.Builder
	b.WriteString("📊 Progress\n")
	fmt.Fprintf(&b, "Concepts: %d (%d paused)\n", len(state.Concepts), paused)
	fmt.Fprintf(&b, "Due for review: %d\n", scheduler.DueCount(state.Concepts, now))
	fmt.Fprintf(&b, "Overall knowledge: %.1f\n", knowledge.OverallAverage(state.Concepts))
	parts := make([]string, 0, models.ModalityCount)
	for _, m := range models.AllModalities {
		parts = append(parts, fmt.Sprintf("%s %.1f", m, avg[m]))
	}
	b.WriteString(strings.Join(parts, " · "))
	b.WriteString("\n")

	if len(accuracy) > 0 {
		b.WriteString("\nLast 7 days:\n")
		for _, a := range accuracy {
			fmt.Fprintf(&b, "%s: %d/%d (%.0f%%)\n", a.Task, a.Correct, a.Attempts, a.Accuracy()*100)
		}
	}
	if len(recent) > 0 {
		b.WriteString("\nRecent sessions:\n")
		for _, p := range recent {
			fmt.Fprintf(&b, "%s: %d/%d (%.0f%%)\n", p.RecordedAt.Format("2006-01-02"), p.Correct, p.Questions, p.Accuracy*100)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderSettings(s models.Settings) string {
	reminder := "off"
	if s.Reminder.Enabled {
		reminder = s.Reminder.At() + " " + s.Reminder.Timezone
	}
	return fmt.Sprintf("⚙️ Settings\nFocus (c p m a): %d %d %d %d\nStrategy: %s\nDifficulty: %s\nQuestions: %d\nOptions: %d\nReminder: %s",
		s.Focus.Character, s.Focus.Pinyin, s.Focus.Meaning, s.Focus.Audio,
		s.Strategy, s.OptionMode, s.QuestionCount, s.OptionCount, reminder)
}

func renderReminder(due int) string {
	if due == 1 {
		return "⏰ 1 word is due for review. Send /quiz to start."
	}
	return fmt.Sprintf("⏰ %d words are due for review. Send /quiz to start.", due)
}

const helpText = `LangSeed vocabulary quiz

/quiz [n] - start a quiz, optionally with n questions
/stats - show your progress
/settings - show the current settings
/pause <word> - stop quizzing a word
/resume <word> - quiz a paused word again
/focus c p m a - weights 0-3 for character, pinyin, meaning, audio
/strategy random|weak|least_tested|due_review - how words are picked
/difficulty easy|hard - how similar wrong options are
/reminder HH:MM [timezone] | off - daily reminder`
