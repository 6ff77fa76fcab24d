package models

import "errors"

var (
	ErrConceptNotFound = errors.New("concept not found")
	ErrInvalidSettings = errors.New("invalid settings")
	ErrSessionNotFound = errors.New("quiz session not found")
	ErrSessionComplete = errors.New("quiz session is complete")
	ErrAlreadyAnswered = errors.New("question already answered")
	ErrNotAnswered     = errors.New("question not answered yet")
	ErrInvalidOption   = errors.New("option index out of range")
)
