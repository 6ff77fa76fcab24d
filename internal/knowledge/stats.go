package knowledge

import (
	"math"

	"github.com/samber/lo"

	"github.com/example/langseed/pkg/models"
)

// Averages returns the mean knowledge per modality over active concepts.
// With no active concepts every average is 0.
func Averages(concepts []models.Concept) [models.ModalityCount]float64 {
	var avg [models.ModalityCount]float64
	active := lo.Filter(concepts, func(c models.Concept, _ int) bool { return !c.Paused })
	if len(active) == 0 {
		return avg
	}
	for _, m := range models.AllModalities {
		total := lo.SumBy(active, func(c models.Concept) int { return c.Score(m).Knowledge })
		avg[m] = float64(total) / float64(len(active))
	}
	return avg
}

// OverallAverage is the mean overall knowledge of active concepts
func OverallAverage(concepts []models.Concept) float64 {
	active := lo.Filter(concepts, func(c models.Concept, _ int) bool { return !c.Paused })
	if len(active) == 0 {
		return 0
	}
	total := lo.SumBy(active, func(c models.Concept) int { return c.Knowledge })
	return float64(total) / float64(len(active))
}

// PredictCorrect is the baseline chance, in percent, of answering a question
// correctly given the answer-modality knowledge and the number of options:
// the learner either knows it or guesses uniformly.
func PredictCorrect(answerKnowledge, optionCount int) int {
	if optionCount < 1 {
		optionCount = 1
	}
	chance := 1 / float64(optionCount)
	k := float64(clamp(answerKnowledge)) / MaxKnowledge
	return clamp(int(math.Round((chance + (1-chance)*k) * 100)))
}
