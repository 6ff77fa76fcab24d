package quiz

import (
	"time"

	"github.com/google/uuid"

	"github.com/example/langseed/pkg/models"
)

// Options are the session parameters taken from the learner's settings
type Options struct {
	QuestionCount int
	OptionCount   int
	Focus         models.FocusWeights
	Strategy      models.SelectionStrategy
	OptionMode    models.OptionMode

	// Label is how a transport shows a concept's modality value. When set,
	// distractors that look the same as the target or another option are
	// dropped even if their stored values differ.
	Label func(c models.Concept, m models.Modality) string
	// Skip rejects task types the transport cannot ask
	Skip func(t models.TaskType) bool
}

// OptionsFromSettings copies the quiz-relevant fields of s
func OptionsFromSettings(s models.Settings) Options {
	return Options{
		QuestionCount: s.QuestionCount,
		OptionCount:   s.OptionCount,
		Focus:         s.Focus,
		Strategy:      s.Strategy,
		OptionMode:    s.OptionMode,
	}
}

// Generator assembles quiz sessions
type Generator struct {
	rng Rand
}

// NewGenerator creates a generator drawing from rng
func NewGenerator(rng Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate builds a session of opts.QuestionCount questions from the
// non-paused concepts. With no active concepts the session has no questions.
// Questions hold copies of the concepts, so later changes to the learner's
// store do not alter a generated session.
func (g *Generator) Generate(concepts []models.Concept, opts Options, now time.Time) models.QuizSession {
	session := models.QuizSession{
		ID:        uuid.NewString(),
		Questions: []models.QuizQuestion{},
		Answers:   []models.AnswerRecord{},
		StartedAt: now,
	}

	pool := Active(concepts)
	if len(pool) == 0 {
		return session
	}

	targets := SelectConcepts(pool, opts.QuestionCount, opts.Strategy, opts.Focus, now, g.rng)
	for _, target := range targets {
		session.Questions = append(session.Questions, g.Question(target, pool, opts))
	}
	return session
}

// Question builds one question about target using pool for distractors
func (g *Generator) Question(target models.Concept, pool []models.Concept, opts Options) models.QuizQuestion {
	task := SelectTaskTypeExcept(opts.Focus, opts.Skip, g.rng)
	distractors := SelectDistractors(target, pool, task.Question, task.Answer, opts.OptionCount-1, opts.OptionMode, g.rng)
	if opts.Label != nil {
		distractors = distinctLabels(target, distractors, task, opts.Label)
	}

	options := make([]models.Concept, 0, len(distractors)+1)
	options = append(options, target)
	options = append(options, distractors...)
	g.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	correct := 0
	for i, o := range options {
		if o.ID == target.ID {
			correct = i
			break
		}
	}
	return models.QuizQuestion{
		Target:       target,
		Task:         task,
		Options:      options,
		CorrectIndex: correct,
	}
}

// distinctLabels keeps the distractors whose labels differ from the
// target's question label and from every earlier option's answer label.
func distinctLabels(target models.Concept, distractors []models.Concept, task models.TaskType, label func(models.Concept, models.Modality) string) []models.Concept {
	question := label(target, task.Question)
	used := map[string]bool{label(target, task.Answer): true}
	kept := distractors[:0]
	for _, d := range distractors {
		if label(d, task.Question) == question {
			continue
		}
		a := label(d, task.Answer)
		if used[a] {
			continue
		}
		used[a] = true
		kept = append(kept, d)
	}
	return kept
}
