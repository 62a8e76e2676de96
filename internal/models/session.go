package models

type SessionState string

const (
	SessionIntroduction SessionState = "introduction"
	SessionActive       SessionState = "active"
	SessionConfirmExit  SessionState = "confirm_exit"
	SessionSubmitted    SessionState = "submitted"
	SessionCanceled     SessionState = "canceled"
)

// Terminal reports whether no further transition is allowed.
func (s SessionState) Terminal() bool {
	return s == SessionSubmitted || s == SessionCanceled
}

// SessionSnapshot is the read-only view of a session handed to callers after
// every control call.
type SessionSnapshot struct {
	ID                   string         `json:"id"`
	Kind                 AssessmentKind `json:"kind"`
	StudentID            string         `json:"student_id"`
	State                SessionState   `json:"state"`
	CurrentQuestionIndex int            `json:"current_question_index"`
	CurrentQuestion      *Question      `json:"current_question,omitempty"`
	TotalQuestions       int            `json:"total_questions"`
	AnsweredCount        int            `json:"answered_count"`
	Responses            []Response     `json:"responses"`
	CountdownRemaining   *int           `json:"countdown_remaining,omitempty"`
}
