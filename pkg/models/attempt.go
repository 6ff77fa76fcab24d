package models

import "time"

// DistractorInfo describes one wrong option shown with a question
type DistractorInfo struct {
	ConceptID string `json:"concept_id"`
	Knowledge int    `json:"knowledge"`
}

// AttemptContext captures the learner state at the moment a question was
// answered, before the knowledge update was applied.
type AttemptContext struct {
	AnswerKnowledge      int                    `json:"answer_knowledge"`
	QuestionKnowledge    int                    `json:"question_knowledge"`
	OverallKnowledge     int                    `json:"overall_knowledge"`
	UserAverages         [ModalityCount]float64 `json:"user_averages"`
	Distractors          []DistractorInfo       `json:"distractors"`
	DaysSinceLastAttempt *float64               `json:"days_since_last_attempt,omitempty"`
	PredictedCorrect     int                    `json:"predicted_correct"`
}

// QuizAttempt is one logged answer, written to the attempt log after the
// in-memory state has already been updated.
type QuizAttempt struct {
	ID               string         `json:"id" db:"id"`
	SessionID        string         `json:"session_id" db:"session_id"`
	ConceptID        string         `json:"concept_id" db:"concept_id"`
	QuestionModality Modality       `json:"question_modality" db:"question_modality"`
	AnswerModality   Modality       `json:"answer_modality" db:"answer_modality"`
	Correct          bool           `json:"correct" db:"correct"`
	OptionCount      int            `json:"option_count" db:"option_count"`
	AnsweredAt       time.Time      `json:"answered_at" db:"answered_at"`
	Context          AttemptContext `json:"context" db:"-"`
}
