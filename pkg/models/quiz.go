package models

import "time"

// QuizQuestion is one multiple-choice trial
type QuizQuestion struct {
	Target       Concept   `json:"target"`
	Task         TaskType  `json:"task"`
	Options      []Concept `json:"options"` // target plus distractors, shuffled
	CorrectIndex int       `json:"correct_index"`
}

// AnswerRecord is a learner's answer to one question of a session
type AnswerRecord struct {
	QuestionIndex int       `json:"question_index"`
	SelectedIndex int       `json:"selected_index"`
	Correct       bool      `json:"correct"`
	AnsweredAt    time.Time `json:"answered_at"`
}

// QuizSession is an ordered list of questions generated from a snapshot of
// the learner's concepts. Only CurrentIndex and Answers change after
// generation.
type QuizSession struct {
	ID           string         `json:"id"`
	Questions    []QuizQuestion `json:"questions"`
	Answers      []AnswerRecord `json:"answers"`
	CurrentIndex int            `json:"current_index"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// Current returns the question being asked, or nil once the session is complete
func (s *QuizSession) Current() *QuizQuestion {
	if s.IsComplete() {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}

// IsComplete reports whether every question has been answered and advanced past.
// A complete session is never resumed.
func (s *QuizSession) IsComplete() bool {
	return s.CurrentIndex >= len(s.Questions)
}

// Answered reports whether the current question already has an answer
func (s *QuizSession) Answered() bool {
	n := len(s.Answers)
	return n > 0 && s.Answers[n-1].QuestionIndex == s.CurrentIndex
}

// Answer records the learner's choice for the current question. It does not
// move to the next question; call Advance for that.
func (s *QuizSession) Answer(selected int, now time.Time) (AnswerRecord, error) {
	q := s.Current()
	if q == nil {
		return AnswerRecord{}, ErrSessionComplete
	}
	if s.Answered() {
		return AnswerRecord{}, ErrAlreadyAnswered
	}
	if selected < 0 || selected >= len(q.Options) {
		return AnswerRecord{}, ErrInvalidOption
	}
	rec := AnswerRecord{
		QuestionIndex: s.CurrentIndex,
		SelectedIndex: selected,
		Correct:       selected == q.CorrectIndex,
		AnsweredAt:    now,
	}
	s.Answers = append(s.Answers, rec)
	return rec, nil
}

// Advance moves past an answered question and reports whether the session
// just completed.
func (s *QuizSession) Advance(now time.Time) (bool, error) {
	if s.IsComplete() {
		return false, ErrSessionComplete
	}
	if !s.Answered() {
		return false, ErrNotAnswered
	}
	s.CurrentIndex++
	if s.IsComplete() {
		t := now
		s.CompletedAt = &t
		return true, nil
	}
	return false, nil
}

// CorrectCount is the number of correct answers so far
func (s *QuizSession) CorrectCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.Correct {
			n++
		}
	}
	return n
}

// Accuracy is the fraction of answered questions that were correct
func (s *QuizSession) Accuracy() float64 {
	if len(s.Answers) == 0 {
		return 0
	}
	return float64(s.CorrectCount()) / float64(len(s.Answers))
}
