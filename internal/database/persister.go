package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/example/langseed/pkg/models"
)

// Persister is the learner store's persistence boundary backed by SQL
type Persister struct {
	Concepts *ConceptRepository
	Settings *SettingsRepository
}

// NewPersister creates a persister over db
func NewPersister(db *sqlx.DB) *Persister {
	return &Persister{
		Concepts: NewConceptRepository(db),
		Settings: NewSettingsRepository(db),
	}
}

func (p *Persister) LoadConcepts(ctx context.Context) ([]models.Concept, error) {
	return p.Concepts.GetAll(ctx)
}

func (p *Persister) LoadSettings(ctx context.Context) (models.Settings, error) {
	return p.Settings.Get(ctx)
}

func (p *Persister) SaveConcepts(ctx context.Context, concepts []models.Concept) error {
	return p.Concepts.UpsertMany(ctx, concepts)
}

func (p *Persister) DeleteConcept(ctx context.Context, id string) error {
	return p.Concepts.Delete(ctx, id)
}

func (p *Persister) SaveSettings(ctx context.Context, s models.Settings) error {
	return p.Settings.Save(ctx, s)
}
