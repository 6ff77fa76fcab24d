package store

import (
	"context"
	"sync"
	"time"

	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/pkg/models"
)

// Persister loads and saves learner state
type Persister interface {
	LoadConcepts(ctx context.Context) ([]models.Concept, error)
	LoadSettings(ctx context.Context) (models.Settings, error)
	SaveConcepts(ctx context.Context, concepts []models.Concept) error
	DeleteConcept(ctx context.Context, id string) error
	SaveSettings(ctx context.Context, settings models.Settings) error
}

// Store holds the current State. A mutation is persisted first and only
// becomes visible once saving succeeded.
type Store struct {
	mu        sync.RWMutex
	state     State
	persister Persister
}

// Open loads the learner state from p
func Open(ctx context.Context, p Persister) (*Store, error) {
	concepts, err := p.LoadConcepts(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := p.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if concepts == nil {
		concepts = []models.Concept{}
	}
	return &Store{
		state:     State{Concepts: concepts, Settings: settings},
		persister: p,
	}, nil
}

// Snapshot returns a copy of the current state. Later mutations do not
// affect it.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Settings returns the current settings
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// AddConcepts inserts or replaces concepts
func (s *Store) AddConcepts(ctx context.Context, concepts []models.Concept) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persister.SaveConcepts(ctx, concepts); err != nil {
		return err
	}
	s.state = AddConcepts(s.state, concepts)
	return nil
}

// RemoveConcept deletes a concept
func (s *Store) RemoveConcept(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := RemoveConcept(s.state, id)
	if err != nil {
		return err
	}
	if err := s.persister.DeleteConcept(ctx, id); err != nil {
		return err
	}
	s.state = next
	return nil
}

// SetPaused pauses or resumes a concept
func (s *Store) SetPaused(ctx context.Context, id string, paused bool, now time.Time) (models.Concept, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, c, err := SetPaused(s.state, id, paused, now)
	if err != nil {
		return models.Concept{}, err
	}
	if err := s.persister.SaveConcepts(ctx, []models.Concept{c}); err != nil {
		return models.Concept{}, err
	}
	s.state = next
	return c, nil
}

// UpdateSettings replaces the settings and saves the recomputed concepts
func (s *Store) UpdateSettings(ctx context.Context, settings models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := UpdateSettings(s.state, settings)
	if err != nil {
		return err
	}
	if err := s.persister.SaveSettings(ctx, next.Settings); err != nil {
		return err
	}
	if err := s.persister.SaveConcepts(ctx, next.Concepts); err != nil {
		return err
	}
	s.state = next
	return nil
}

// RecordAnswer updates the knowledge of a concept after an answer. It
// returns the concept before and after the update.
func (s *Store) RecordAnswer(ctx context.Context, conceptID string, task models.TaskType, correct bool, now time.Time) (before, after models.Concept, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before, ok := s.state.Find(conceptID)
	if !ok {
		return models.Concept{}, models.Concept{}, models.ErrConceptNotFound
	}
	next, after, err := RecordAnswer(s.state, conceptID, task, correct, now)
	if err != nil {
		return models.Concept{}, models.Concept{}, err
	}
	if err := s.persister.SaveConcepts(ctx, []models.Concept{after}); err != nil {
		return models.Concept{}, models.Concept{}, err
	}
	s.state = next
	return before, after, nil
}

// Replace swaps in a whole new state, used after a restore or a remote
// pull. Concepts missing from state are deleted, and overall knowledge is
// re-derived under the new focus.
func (s *Store) Replace(ctx context.Context, state State) error {
	if err := state.Settings.Validate(); err != nil {
		return err
	}
	state.Concepts = knowledge.Recompute(state.Concepts, state.Settings.Focus)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.state.Concepts {
		if _, ok := state.Find(c.ID); ok {
			continue
		}
		if err := s.persister.DeleteConcept(ctx, c.ID); err != nil {
			return err
		}
	}
	if err := s.persister.SaveSettings(ctx, state.Settings); err != nil {
		return err
	}
	if err := s.persister.SaveConcepts(ctx, state.Concepts); err != nil {
		return err
	}
	s.state = state.clone()
	return nil
}
