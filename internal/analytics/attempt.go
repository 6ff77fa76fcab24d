package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/pkg/models"
)

// BuildAttempt describes an answer to q for the attempt log. before is the
// target concept as it was before the answer was applied, and concepts is
// the learner's vocabulary at the same moment.
func BuildAttempt(sessionID string, q models.QuizQuestion, selected int, before models.Concept, concepts []models.Concept, now time.Time) models.QuizAttempt {
	byID := lo.SliceToMap(concepts, func(c models.Concept) (string, models.Concept) { return c.ID, c })

	distractors := make([]models.DistractorInfo, 0, len(q.Options))
	for i, opt := range q.Options {
		if i == q.CorrectIndex {
			continue
		}
		if current, ok := byID[opt.ID]; ok {
			opt = current
		}
		distractors = append(distractors, models.DistractorInfo{
			ConceptID: opt.ID,
			Knowledge: opt.Score(q.Task.Answer).Knowledge,
		})
	}

	answerKnowledge := before.Score(q.Task.Answer).Knowledge
	ctx := models.AttemptContext{
		AnswerKnowledge:   answerKnowledge,
		QuestionKnowledge: before.Score(q.Task.Question).Knowledge,
		OverallKnowledge:  before.Knowledge,
		UserAverages:      knowledge.Averages(concepts),
		Distractors:       distractors,
		PredictedCorrect:  knowledge.PredictCorrect(answerKnowledge, len(q.Options)),
	}
	if last := before.LastAttempt(); last != nil {
		days := now.Sub(*last).Hours() / 24
		ctx.DaysSinceLastAttempt = &days
	}

	return models.QuizAttempt{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		ConceptID:        before.ID,
		QuestionModality: q.Task.Question,
		AnswerModality:   q.Task.Answer,
		Correct:          selected == q.CorrectIndex,
		OptionCount:      len(q.Options),
		AnsweredAt:       now,
		Context:          ctx,
	}
}

// BuildProgress summarises a completed session together with the
// learner's knowledge right after it
func BuildProgress(session models.QuizSession, concepts []models.Concept, now time.Time) models.ProgressSnapshot {
	return models.ProgressSnapshot{
		ID:               uuid.NewString(),
		SessionID:        session.ID,
		RecordedAt:       now,
		Questions:        len(session.Questions),
		Correct:          session.CorrectCount(),
		Accuracy:         session.Accuracy(),
		ModalityAverages: knowledge.Averages(concepts),
		OverallAverage:   knowledge.OverallAverage(concepts),
		ConceptCount:     len(quizzable(concepts)),
	}
}

func quizzable(concepts []models.Concept) []models.Concept {
	return lo.Filter(concepts, func(c models.Concept, _ int) bool { return !c.Paused })
}
