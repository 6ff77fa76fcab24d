package models

import (
	"fmt"
	"time"
)

// MaxFocus is the highest focus weight a modality can have
const MaxFocus = 3

// FocusWeights controls how often each modality is tested. A weight of 0
// means the modality is never tested and is left out of overall knowledge.
type FocusWeights struct {
	Character int `json:"character"`
	Pinyin    int `json:"pinyin"`
	Meaning   int `json:"meaning"`
	Audio     int `json:"audio"`
}

// Get returns the weight of modality m
func (f FocusWeights) Get(m Modality) int {
	switch m {
	case Character:
		return f.Character
	case Pinyin:
		return f.Pinyin
	case Meaning:
		return f.Meaning
	case Audio:
		return f.Audio
	}
	return 0
}

// AllZero reports whether every modality has weight 0
func (f FocusWeights) AllZero() bool {
	return f.Character == 0 && f.Pinyin == 0 && f.Meaning == 0 && f.Audio == 0
}

// Validate checks every weight is within 0..MaxFocus
func (f FocusWeights) Validate() error {
	for _, m := range AllModalities {
		if w := f.Get(m); w < 0 || w > MaxFocus {
			return fmt.Errorf("%w: focus %s=%d outside 0..%d", ErrInvalidSettings, m, w, MaxFocus)
		}
	}
	return nil
}

// SelectionStrategy decides which concepts go into a session
type SelectionStrategy string

const (
	StrategyRandom      SelectionStrategy = "random"
	StrategyWeak        SelectionStrategy = "weak"
	StrategyLeastTested SelectionStrategy = "least_tested"
	StrategyDueReview   SelectionStrategy = "due_review"
)

// Valid reports whether s is a known strategy
func (s SelectionStrategy) Valid() bool {
	switch s {
	case StrategyRandom, StrategyWeak, StrategyLeastTested, StrategyDueReview:
		return true
	}
	return false
}

// OptionMode controls how similar distractors are to the target
type OptionMode string

const (
	OptionEasy OptionMode = "easy"
	OptionHard OptionMode = "hard"
)

// Valid reports whether m is a known option mode
func (m OptionMode) Valid() bool {
	return m == OptionEasy || m == OptionHard
}

// Reminder is the daily study reminder configuration
type Reminder struct {
	Enabled  bool   `json:"enabled"`
	Hour     int    `json:"hour"`
	Minute   int    `json:"minute"`
	Timezone string `json:"timezone"`
}

// Location resolves the reminder timezone
func (r Reminder) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidSettings, r.Timezone, err)
	}
	return loc, nil
}

// At formats the reminder time as HH:MM
func (r Reminder) At() string {
	return fmt.Sprintf("%02d:%02d", r.Hour, r.Minute)
}

// Settings is the learner's quiz configuration
type Settings struct {
	Focus         FocusWeights      `json:"focus"`
	Strategy      SelectionStrategy `json:"strategy"`
	OptionMode    OptionMode        `json:"option_mode"`
	QuestionCount int               `json:"question_count"`
	OptionCount   int               `json:"option_count"`
	Reminder      Reminder          `json:"reminder"`
	Voice         string            `json:"voice"`
	SpeechRate    float64           `json:"speech_rate"`
}

const (
	MinQuestionCount = 1
	MaxQuestionCount = 100
	MinOptionCount   = 2
	MaxOptionCount   = 8
)

// DefaultSettings returns the settings used before the learner changes anything
func DefaultSettings() Settings {
	return Settings{
		Focus:         FocusWeights{Character: 2, Pinyin: 2, Meaning: 2, Audio: 1},
		Strategy:      StrategyWeak,
		OptionMode:    OptionHard,
		QuestionCount: 10,
		OptionCount:   4,
		Reminder: Reminder{
			Enabled:  false,
			Hour:     9,
			Minute:   0,
			Timezone: "UTC",
		},
		Voice:      "zh-CN",
		SpeechRate: 0.8,
	}
}

// Validate checks the settings are usable by the quiz engine
func (s Settings) Validate() error {
	if err := s.Focus.Validate(); err != nil {
		return err
	}
	if !s.Strategy.Valid() {
		return fmt.Errorf("%w: strategy %q", ErrInvalidSettings, s.Strategy)
	}
	if !s.OptionMode.Valid() {
		return fmt.Errorf("%w: option mode %q", ErrInvalidSettings, s.OptionMode)
	}
	if s.QuestionCount < MinQuestionCount || s.QuestionCount > MaxQuestionCount {
		return fmt.Errorf("%w: question count %d", ErrInvalidSettings, s.QuestionCount)
	}
	if s.OptionCount < MinOptionCount || s.OptionCount > MaxOptionCount {
		return fmt.Errorf("%w: option count %d", ErrInvalidSettings, s.OptionCount)
	}
	if s.Reminder.Hour < 0 || s.Reminder.Hour > 23 || s.Reminder.Minute < 0 || s.Reminder.Minute > 59 {
		return fmt.Errorf("%w: reminder time %s", ErrInvalidSettings, s.Reminder.At())
	}
	if _, err := s.Reminder.Location(); err != nil {
		return err
	}
	return nil
}
