package events

import (
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/google/uuid"
)

// EventType represents the assessment lifecycle events the service emits
type EventType string

const (
	EventAssessmentStarted   EventType = "assessment.started"
	EventAssessmentSubmitted EventType = "assessment.submitted"
	EventAssessmentCanceled  EventType = "assessment.canceled"
)

const (
	eventSource  = "career-assessment-service"
	eventVersion = "1.0"
)

// AssessmentEvent is the envelope for every published event
type AssessmentEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type AssessmentStartedEvent struct {
	SessionID      string                `json:"session_id"`
	Kind           models.AssessmentKind `json:"kind"`
	StudentID      string                `json:"student_id"`
	TotalQuestions int                   `json:"total_questions"`
	StartedAt      time.Time             `json:"started_at"`
}

// AssessmentSubmittedEvent carries the full result so downstream report
// renderers need no read-back.
type AssessmentSubmittedEvent struct {
	SessionID string         `json:"session_id"`
	Result    *models.Result `json:"result"`
}

// AssessmentCanceledEvent never carries responses; a canceled attempt is not
// persisted anywhere.
type AssessmentCanceledEvent struct {
	SessionID     string                `json:"session_id"`
	Kind          models.AssessmentKind `json:"kind"`
	StudentID     string                `json:"student_id"`
	AnsweredCount int                   `json:"answered_count"`
	CanceledAt    time.Time             `json:"canceled_at"`
}

// Event factory functions

func NewAssessmentStartedEvent(sessionID string, kind models.AssessmentKind, studentID string, totalQuestions int, startedAt time.Time) *AssessmentEvent {
	return newEvent(EventAssessmentStarted, AssessmentStartedEvent{
		SessionID:      sessionID,
		Kind:           kind,
		StudentID:      studentID,
		TotalQuestions: totalQuestions,
		StartedAt:      startedAt,
	})
}

func NewAssessmentSubmittedEvent(sessionID string, result *models.Result) *AssessmentEvent {
	return newEvent(EventAssessmentSubmitted, AssessmentSubmittedEvent{
		SessionID: sessionID,
		Result:    result.Clone(),
	})
}

func NewAssessmentCanceledEvent(sessionID string, kind models.AssessmentKind, studentID string, answeredCount int, canceledAt time.Time) *AssessmentEvent {
	return newEvent(EventAssessmentCanceled, AssessmentCanceledEvent{
		SessionID:     sessionID,
		Kind:          kind,
		StudentID:     studentID,
		AnsweredCount: answeredCount,
		CanceledAt:    canceledAt,
	})
}

func newEvent(eventType EventType, data interface{}) *AssessmentEvent {
	return &AssessmentEvent{
		ID:        GenerateEventID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// GenerateEventID returns a random event id
func GenerateEventID() string {
	return uuid.NewString()
}
