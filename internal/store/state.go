package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/pkg/models"
)

// State is everything the quiz engine knows about the learner. Update
// functions never modify their input; they return a new State.
type State struct {
	Concepts []models.Concept
	Settings models.Settings
}

// Find returns the concept with the given ID
func (s State) Find(id string) (models.Concept, bool) {
	return lo.Find(s.Concepts, func(c models.Concept) bool { return c.ID == id })
}

// FindByWord returns the concept whose word matches, ignoring surrounding spaces
func (s State) FindByWord(word string) (models.Concept, bool) {
	word = strings.TrimSpace(word)
	return lo.Find(s.Concepts, func(c models.Concept) bool { return c.Word == word })
}

func (s State) index(id string) int {
	_, i, ok := lo.FindIndexOf(s.Concepts, func(c models.Concept) bool { return c.ID == id })
	if !ok {
		return -1
	}
	return i
}

func (s State) clone() State {
	out := s
	out.Concepts = make([]models.Concept, len(s.Concepts))
	copy(out.Concepts, s.Concepts)
	return out
}

// AddConcepts inserts concepts, replacing any existing concept with the same ID
func AddConcepts(s State, concepts []models.Concept) State {
	out := s.clone()
	for _, c := range concepts {
		if i := out.index(c.ID); i >= 0 {
			out.Concepts[i] = c
			continue
		}
		out.Concepts = append(out.Concepts, c)
	}
	return out
}

// RemoveConcept drops the concept with the given ID
func RemoveConcept(s State, id string) (State, error) {
	i := s.index(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", models.ErrConceptNotFound, id)
	}
	out := s.clone()
	out.Concepts = append(out.Concepts[:i], out.Concepts[i+1:]...)
	return out, nil
}

// SetPaused excludes a concept from quizzes or brings it back. Scores are kept.
func SetPaused(s State, id string, paused bool, now time.Time) (State, models.Concept, error) {
	i := s.index(id)
	if i < 0 {
		return s, models.Concept{}, fmt.Errorf("%w: %s", models.ErrConceptNotFound, id)
	}
	out := s.clone()
	c := out.Concepts[i]
	if c.Paused != paused {
		c.Paused = paused
		c.UpdatedAt = now
	}
	out.Concepts[i] = c
	return out, c, nil
}

// UpdateSettings validates and applies new settings. Overall knowledge of
// every concept is recomputed since it depends on the focus weights.
func UpdateSettings(s State, settings models.Settings) (State, error) {
	if err := settings.Validate(); err != nil {
		return s, err
	}
	out := s.clone()
	out.Settings = settings
	out.Concepts = knowledge.Recompute(out.Concepts, settings.Focus)
	return out, nil
}

// RecordAnswer applies one answer to the concept's modality scores
func RecordAnswer(s State, conceptID string, task models.TaskType, correct bool, now time.Time) (State, models.Concept, error) {
	i := s.index(conceptID)
	if i < 0 {
		return s, models.Concept{}, fmt.Errorf("%w: %s", models.ErrConceptNotFound, conceptID)
	}
	out := s.clone()
	out.Concepts[i] = knowledge.Apply(out.Concepts[i], task, correct, s.Settings.Focus, now)
	return out, out.Concepts[i], nil
}
