package models

import (
	"fmt"
	"strings"
)

// Modality is one of the four representations of a word that can be tested
type Modality int

const (
	Character Modality = iota
	Pinyin
	Meaning
	Audio
)

// ModalityCount is the number of modalities tracked per concept
const ModalityCount = 4

// AllModalities lists every modality in storage order
var AllModalities = [ModalityCount]Modality{Character, Pinyin, Meaning, Audio}

var modalityNames = [ModalityCount]string{"character", "pinyin", "meaning", "audio"}

func (m Modality) String() string {
	if !m.Valid() {
		return fmt.Sprintf("modality(%d)", int(m))
	}
	return modalityNames[m]
}

// Valid reports whether m is one of the four known modalities
func (m Modality) Valid() bool {
	return m >= Character && m <= Audio
}

// ParseModality converts a modality name to a Modality
func ParseModality(s string) (Modality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range modalityNames {
		if name == s {
			return Modality(i), nil
		}
	}
	return 0, fmt.Errorf("unknown modality %q", s)
}

// MarshalText encodes the modality by name
func (m Modality) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid modality %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a modality name
func (m *Modality) UnmarshalText(text []byte) error {
	parsed, err := ParseModality(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// TaskType is an ordered (question, answer) modality pair
type TaskType struct {
	Question Modality `json:"question"`
	Answer   Modality `json:"answer"`
}

// DefaultTaskType is used when no task type has a non-zero weight
var DefaultTaskType = TaskType{Question: Character, Answer: Meaning}

func (t TaskType) String() string {
	return t.Question.String() + "->" + t.Answer.String()
}

// AllTaskTypes returns the 12 ordered pairs of distinct modalities
func AllTaskTypes() []TaskType {
	types := make([]TaskType, 0, ModalityCount*(ModalityCount-1))
	for _, q := range AllModalities {
		for _, a := range AllModalities {
			if q != a {
				types = append(types, TaskType{Question: q, Answer: a})
			}
		}
	}
	return types
}
