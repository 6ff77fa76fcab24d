package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/internal/store"
	"github.com/example/langseed/pkg/models"
)

// CurrentVersion is the version written by Export
const CurrentVersion = 2

// Document is the backup file layout
type Document struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exported_at"`
	Settings   models.Settings  `json:"settings"`
	Concepts   []models.Concept `json:"concepts"`
}

// Export writes state as a backup document
func Export(w io.Writer, state store.State, now time.Time) error {
	doc := Document{
		Version:    CurrentVersion,
		ExportedAt: now.UTC(),
		Settings:   state.Settings,
		Concepts:   state.Concepts,
	}
	if doc.Concepts == nil {
		doc.Concepts = []models.Concept{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return nil
}

// Decode reads a backup of any known version and upgrades it to the
// current layout
func Decode(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup: %w", err)
	}

	var header struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	version := header.Version
	if version == 0 {
		version = 1 // the first format had no version field
	}
	if version > CurrentVersion {
		return nil, fmt.Errorf("backup version %d is newer than supported version %d", version, CurrentVersion)
	}

	for version < CurrentVersion {
		upgrade, ok := upgrades[version]
		if !ok {
			return nil, fmt.Errorf("no upgrade from backup version %d", version)
		}
		if raw, err = upgrade(raw); err != nil {
			return nil, fmt.Errorf("failed to upgrade backup from version %d: %w", version, err)
		}
		version++
	}

	doc := Document{Settings: models.DefaultSettings()}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode backup: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, err
	}
	doc.Concepts = knowledge.Recompute(doc.Concepts, doc.Settings.Focus)
	return &doc, nil
}

func (d *Document) validate() error {
	if err := d.Settings.Validate(); err != nil {
		return err
	}
	ids := make(map[string]bool, len(d.Concepts))
	for i, c := range d.Concepts {
		if c.ID == "" || c.Word == "" {
			return fmt.Errorf("concept %d is missing an id or word", i+1)
		}
		if ids[c.ID] {
			return fmt.Errorf("duplicate concept id %s", c.ID)
		}
		ids[c.ID] = true
		for _, m := range models.AllModalities {
			if k := c.Score(m).Knowledge; k < knowledge.MinKnowledge || k > knowledge.MaxKnowledge {
				return fmt.Errorf("concept %s: %s knowledge %d out of range", c.ID, m, k)
			}
		}
	}
	return nil
}

// Replacer receives a restored state
type Replacer interface {
	Replace(ctx context.Context, state store.State) error
}

// Restore decodes a backup and replaces the learner state with it
func Restore(ctx context.Context, target Replacer, r io.Reader) (*Document, error) {
	doc, err := Decode(r)
	if err != nil {
		return nil, err
	}
	if err := target.Replace(ctx, store.State{Concepts: doc.Concepts, Settings: doc.Settings}); err != nil {
		return nil, fmt.Errorf("failed to restore backup: %w", err)
	}
	return doc, nil
}
