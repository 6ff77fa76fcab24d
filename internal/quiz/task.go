package quiz

import "github.com/example/langseed/pkg/models"

// SelectTaskType draws a (question, answer) modality pair. Each pair is
// weighted by focus[question]*focus[answer], so pairs involving a modality
// with focus 0 are never drawn. If no pair has weight, DefaultTaskType is
// returned.
func SelectTaskType(focus models.FocusWeights, rng Rand) models.TaskType {
	return selectTask(models.AllTaskTypes(), focus, rng)
}

// SelectTaskTypeExcept is SelectTaskType without the pairs skip rejects
func SelectTaskTypeExcept(focus models.FocusWeights, skip func(models.TaskType) bool, rng Rand) models.TaskType {
	types := models.AllTaskTypes()
	if skip != nil {
		kept := types[:0]
		for _, t := range types {
			if !skip(t) {
				kept = append(kept, t)
			}
		}
		types = kept
	}
	return selectTask(types, focus, rng)
}

func selectTask(types []models.TaskType, focus models.FocusWeights, rng Rand) models.TaskType {
	weights := make([]float64, len(types))
	var total float64
	for i, t := range types {
		weights[i] = float64(focus.Get(t.Question) * focus.Get(t.Answer))
		total += weights[i]
	}
	if total == 0 {
		return models.DefaultTaskType
	}

	r := rng.Float64() * total
	var cumulative float64
	last := models.DefaultTaskType
	for i, t := range types {
		if weights[i] == 0 {
			continue
		}
		cumulative += weights[i]
		last = t
		if r < cumulative {
			return t
		}
	}
	// rounding left r at the very top of the range
	return last
}
