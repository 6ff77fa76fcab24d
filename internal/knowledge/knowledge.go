// Package knowledge maintains the per-modality recall estimates of a concept.
//
// Scores move toward 100 on a correct answer and toward 0 on a wrong one by an
// exponential step. The modality the learner actively answered moves faster
// than the one that was only shown as the question, and correct answers move
// faster than wrong ones.
package knowledge

import (
	"math"
	"time"

	"github.com/example/langseed/pkg/models"
)

const (
	// AnswerGain is the fraction of the remaining gap closed on a correct answer
	AnswerGain = 0.25
	// QuestionGain applies to the passively reinforced question modality
	QuestionGain = 0.12
	// AnswerLoss is the fraction of the score lost on a wrong answer
	AnswerLoss = 0.175
	// QuestionLoss applies to the question modality on a wrong answer
	QuestionLoss = 0.08

	MinKnowledge = 0
	MaxKnowledge = 100
)

// Update returns the new knowledge value after one answer
func Update(current int, correct, isAnswerModality bool) int {
	k := float64(clamp(current))
	if correct {
		gain := QuestionGain
		if isAnswerModality {
			gain = AnswerGain
		}
		k += (MaxKnowledge - k) * gain
	} else {
		loss := QuestionLoss
		if isAnswerModality {
			loss = AnswerLoss
		}
		k -= k * loss
	}
	return clamp(int(math.Round(k)))
}

// Apply records an answer to task on c. The answer modality is updated with
// the answer rates and the question modality with the question rates; both
// get their counters and last attempt time bumped. Overall knowledge is
// recomputed before returning.
func Apply(c models.Concept, task models.TaskType, correct bool, focus models.FocusWeights, now time.Time) models.Concept {
	c.SetScore(task.Answer, record(c.Score(task.Answer), correct, true, now))
	if task.Question != task.Answer {
		c.SetScore(task.Question, record(c.Score(task.Question), correct, false, now))
	}
	c.Knowledge = Overall(c, focus)
	c.UpdatedAt = now
	return c
}

func record(s models.ModalityScore, correct, isAnswer bool, now time.Time) models.ModalityScore {
	s.Knowledge = Update(s.Knowledge, correct, isAnswer)
	s.Attempts++
	if correct {
		s.Successes++
	}
	t := now
	s.LastAttempt = &t
	return s
}

// Overall is the focus-weighted mean of the modality scores. Modalities with
// weight 0 are excluded; if every weight is 0 the plain mean is used.
func Overall(c models.Concept, focus models.FocusWeights) int {
	var sum, weights float64
	for _, m := range models.AllModalities {
		w := float64(focus.Get(m))
		sum += w * float64(c.Score(m).Knowledge)
		weights += w
	}
	if weights == 0 {
		sum = 0
		for _, m := range models.AllModalities {
			sum += float64(c.Score(m).Knowledge)
		}
		weights = models.ModalityCount
	}
	return clamp(int(math.Round(sum / weights)))
}

// Recompute refreshes the overall knowledge of every concept, used after
// focus weights change.
func Recompute(concepts []models.Concept, focus models.FocusWeights) []models.Concept {
	out := make([]models.Concept, len(concepts))
	for i, c := range concepts {
		c.Knowledge = Overall(c, focus)
		out[i] = c
	}
	return out
}

func clamp(k int) int {
	if k < MinKnowledge {
		return MinKnowledge
	}
	if k > MaxKnowledge {
		return MaxKnowledge
	}
	return k
}
