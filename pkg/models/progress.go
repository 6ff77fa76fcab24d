package models

import "time"

// ProgressSnapshot is recorded when a quiz session completes
type ProgressSnapshot struct {
	ID               string                 `json:"id" db:"id"`
	SessionID        string                 `json:"session_id" db:"session_id"`
	RecordedAt       time.Time              `json:"recorded_at" db:"recorded_at"`
	Questions        int                    `json:"questions" db:"questions"`
	Correct          int                    `json:"correct" db:"correct"`
	Accuracy         float64                `json:"accuracy" db:"accuracy"`
	ModalityAverages [ModalityCount]float64 `json:"modality_averages" db:"-"`
	OverallAverage   float64                `json:"overall_average" db:"overall_average"`
	ConceptCount     int                    `json:"concept_count" db:"concept_count"`
}
