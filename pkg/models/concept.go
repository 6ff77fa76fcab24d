package models

import (
	"strings"
	"time"
)

// ModalityScore is the learning state of one modality of a concept
type ModalityScore struct {
	Knowledge   int        `json:"knowledge" db:"knowledge"` // 0-100 recall estimate
	Attempts    int        `json:"attempts" db:"attempts"`
	Successes   int        `json:"successes" db:"successes"`
	LastAttempt *time.Time `json:"last_attempt,omitempty" db:"last_attempt"`
}

// Concept is a vocabulary item the learner is tracking
type Concept struct {
	ID           string    `json:"id" db:"id"`
	Word         string    `json:"word" db:"word"`
	Pinyin       string    `json:"pinyin" db:"pinyin"`
	PartOfSpeech string    `json:"part_of_speech" db:"part_of_speech"`
	Meaning      string    `json:"meaning" db:"meaning"`
	Chapter      int       `json:"chapter" db:"chapter"`
	Source       string    `json:"source" db:"source"`
	Paused       bool      `json:"paused" db:"paused"`
	Knowledge    int       `json:"knowledge" db:"knowledge"` // derived from Modalities
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	// Modalities is indexed by Modality. It is an array so that copying a
	// Concept also copies its scores.
	Modalities [ModalityCount]ModalityScore `json:"modalities" db:"-"`
}

// Score returns the score of modality m
func (c *Concept) Score(m Modality) ModalityScore {
	return c.Modalities[m]
}

// SetScore replaces the score of modality m
func (c *Concept) SetScore(m Modality, s ModalityScore) {
	c.Modalities[m] = s
}

// TotalAttempts sums attempts across all modalities
func (c *Concept) TotalAttempts() int {
	total := 0
	for _, s := range c.Modalities {
		total += s.Attempts
	}
	return total
}

// LastAttempt returns the most recent attempt across modalities, or nil if
// the concept was never tested.
func (c *Concept) LastAttempt() *time.Time {
	var last *time.Time
	for _, s := range c.Modalities {
		if s.LastAttempt == nil {
			continue
		}
		if last == nil || s.LastAttempt.After(*last) {
			t := *s.LastAttempt
			last = &t
		}
	}
	return last
}

// DisplayValue is the comparable value shown for modality m. Audio options
// are realized as spoken words, so audio compares by the word itself.
func (c *Concept) DisplayValue(m Modality) string {
	switch m {
	case Pinyin:
		return strings.ToLower(strings.TrimSpace(c.Pinyin))
	case Meaning:
		return strings.ToLower(strings.TrimSpace(c.Meaning))
	default:
		return c.Word
	}
}
