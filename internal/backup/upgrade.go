package backup

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/example/langseed/pkg/models"
)

// upgrades maps a version to the step that converts it to the next one
var upgrades = map[int]func([]byte) ([]byte, error){
	1: upgradeV1,
}

// v1 stored a single knowledge value per concept
type conceptV1 struct {
	ID           string    `json:"id"`
	Word         string    `json:"word"`
	Pinyin       string    `json:"pinyin"`
	PartOfSpeech string    `json:"part_of_speech"`
	Meaning      string    `json:"meaning"`
	Chapter      int       `json:"chapter"`
	Source       string    `json:"source"`
	Paused       bool      `json:"paused"`
	Knowledge    int       `json:"knowledge"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type documentV1 struct {
	ExportedAt time.Time       `json:"exported_at"`
	Settings   json.RawMessage `json:"settings,omitempty"`
	Concepts   []conceptV1     `json:"concepts"`
}

// upgradeV1 seeds every modality score from the legacy knowledge value
func upgradeV1(raw []byte) ([]byte, error) {
	var old documentV1
	if err := json.Unmarshal(raw, &old); err != nil {
		return nil, err
	}

	concepts := make([]models.Concept, len(old.Concepts))
	for i, oc := range old.Concepts {
		c := models.Concept{
			ID:           oc.ID,
			Word:         oc.Word,
			Pinyin:       oc.Pinyin,
			PartOfSpeech: oc.PartOfSpeech,
			Meaning:      oc.Meaning,
			Chapter:      oc.Chapter,
			Source:       oc.Source,
			Paused:       oc.Paused,
			Knowledge:    oc.Knowledge,
			CreatedAt:    oc.CreatedAt,
			UpdatedAt:    oc.UpdatedAt,
		}
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.PartOfSpeech == "" {
			c.PartOfSpeech = "other"
		}
		for _, m := range models.AllModalities {
			c.SetScore(m, models.ModalityScore{Knowledge: oc.Knowledge})
		}
		concepts[i] = c
	}

	next := map[string]any{
		"version":     2,
		"exported_at": old.ExportedAt,
		"concepts":    concepts,
	}
	if len(old.Settings) > 0 {
		next["settings"] = old.Settings
	}
	return json.Marshal(next)
}
