package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/langseed/internal/knowledge"
	"github.com/example/langseed/internal/store"
	"github.com/example/langseed/pkg/models"
)

// Result holds the result of an import operation
type Result struct {
	TotalProcessed int
	Created        int
	Updated        int
	Skipped        int
	Errors         []string
}

// Target is where imported concepts end up
type Target interface {
	Snapshot() store.State
	AddConcepts(ctx context.Context, concepts []models.Concept) error
}

// Merge turns entries into concepts against the existing vocabulary. Only
// the first occurrence of a word is used. Existing concepts keep their
// scores and get their descriptive fields refreshed; new concepts are
// seeded from their chapter.
func Merge(existing []models.Concept, entries []Entry, focus models.FocusWeights, now time.Time) ([]models.Concept, Result) {
	byWord := make(map[string]models.Concept, len(existing))
	for _, c := range existing {
		byWord[c.Word] = c
	}

	result := Result{Errors: make([]string, 0)}
	seen := make(map[string]bool, len(entries))
	var out []models.Concept

	for _, e := range entries {
		result.TotalProcessed++
		if seen[e.Word] {
			result.Skipped++
			continue
		}
		seen[e.Word] = true

		if c, ok := byWord[e.Word]; ok {
			if c.Pinyin == e.Pinyin && c.PartOfSpeech == e.PartOfSpeech && c.Meaning == e.Meaning && c.Chapter == e.Chapter {
				result.Skipped++
				continue
			}
			c.Pinyin = e.Pinyin
			c.PartOfSpeech = e.PartOfSpeech
			c.Meaning = e.Meaning
			c.Chapter = e.Chapter
			if e.Source != "" {
				c.Source = e.Source
			}
			c.UpdatedAt = now
			out = append(out, c)
			result.Updated++
			continue
		}

		c := models.Concept{
			ID:           uuid.NewString(),
			Word:         e.Word,
			Pinyin:       e.Pinyin,
			PartOfSpeech: e.PartOfSpeech,
			Meaning:      e.Meaning,
			Chapter:      e.Chapter,
			Source:       e.Source,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		knowledge.Seed(&c, focus)
		out = append(out, c)
		result.Created++
	}
	return out, result
}

// Import reads the file named in cfg and adds its vocabulary to target
func Import(ctx context.Context, target Target, cfg Config, now time.Time, log logrus.FieldLogger) (*Result, error) {
	parsed, err := ParseFile(cfg)
	if err != nil {
		return nil, err
	}

	state := target.Snapshot()
	concepts, result := Merge(state.Concepts, parsed.Entries, state.Settings.Focus, now)
	result.Errors = append(parsed.Errors, result.Errors...)
	result.TotalProcessed += len(parsed.Errors)

	if len(concepts) > 0 {
		if err := target.AddConcepts(ctx, concepts); err != nil {
			return nil, fmt.Errorf("failed to save imported concepts: %w", err)
		}
	}

	log.WithFields(logrus.Fields{
		"file":    cfg.FilePath,
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
		"errors":  len(result.Errors),
	}).Info("vocabulary imported")
	return &result, nil
}
