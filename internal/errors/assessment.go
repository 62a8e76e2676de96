package errors

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is matching across the engine error types.
var (
	ErrInvalidAnswer        = errors.New("invalid answer")
	ErrIncompleteAssessment = errors.New("incomplete assessment")
	ErrInvalidTransition    = errors.New("invalid session transition")
	ErrDataIntegrity        = errors.New("knowledge base integrity violation")
)

// InvalidAnswerError rejects an answer before the response ledger is touched.
type InvalidAnswerError struct {
	QuestionID int    `json:"question_id"`
	Value      int    `json:"value"`
	Reason     string `json:"reason"`
}

func NewInvalidAnswerError(questionID, value int, reason string) *InvalidAnswerError {
	return &InvalidAnswerError{QuestionID: questionID, Value: value, Reason: reason}
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer %d for question %d: %s", e.Value, e.QuestionID, e.Reason)
}

func (e *InvalidAnswerError) Is(target error) bool { return target == ErrInvalidAnswer }

// IncompleteAssessmentError is returned by submit while questions remain.
type IncompleteAssessmentError struct {
	Answered  int `json:"answered"`
	Total     int `json:"total"`
	Remaining int `json:"remaining"`
}

func NewIncompleteAssessmentError(answered, total int) *IncompleteAssessmentError {
	return &IncompleteAssessmentError{Answered: answered, Total: total, Remaining: total - answered}
}

func (e *IncompleteAssessmentError) Error() string {
	return fmt.Sprintf("assessment incomplete: %d of %d questions remaining", e.Remaining, e.Total)
}

func (e *IncompleteAssessmentError) Is(target error) bool { return target == ErrIncompleteAssessment }

// InvalidTransitionError is returned when a control call is not permitted in
// the current session state. The session is left unchanged.
type InvalidTransitionError struct {
	From   string `json:"from"`
	Action string `json:"action"`
	Reason string `json:"reason,omitempty"`
}

func NewInvalidTransitionError(from, action, reason string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, Action: action, Reason: reason}
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("cannot %s from state %s: %s", e.Action, e.From, e.Reason)
	}
	return fmt.Sprintf("cannot %s from state %s", e.Action, e.From)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// DataIntegrityError marks a malformed knowledge base or catalog row. It is a
// configuration fault, never a runtime fallback.
type DataIntegrityError struct {
	Entity string `json:"entity"`
	Reason string `json:"reason"`
}

func NewDataIntegrityError(entity, reason string) *DataIntegrityError {
	return &DataIntegrityError{Entity: entity, Reason: reason}
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("data integrity error on %s: %s", e.Entity, e.Reason)
}

func (e *DataIntegrityError) Is(target error) bool { return target == ErrDataIntegrity }
