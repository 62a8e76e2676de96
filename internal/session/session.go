package session

import (
	"sync"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/scoring"
)

const (
	DefaultAdvanceUnit  = time.Second
	DefaultAdvanceUnits = 3
)

// Session is one attempt at an assessment. It owns its response ledger and at
// most one live auto-advance countdown. All methods are safe to call while the
// countdown fires on another goroutine.
type Session struct {
	mu sync.Mutex

	id        string
	studentID string
	bank      *catalog.QuestionBank
	composer  *scoring.Composer

	state  models.SessionState
	index  int
	ledger *scoring.Ledger
	result *models.Result

	timer        Timer
	generation   uint64
	advanceUnit  time.Duration
	advanceUnits int
	onAdvance    func(models.SessionSnapshot)
}

type Option func(*Session)

// WithTimer replaces the default RealTimer.
func WithTimer(t Timer) Option {
	return func(s *Session) { s.timer = t }
}

// WithCountdown sets the auto-advance countdown to units × unit.
func WithCountdown(unit time.Duration, units int) Option {
	return func(s *Session) {
		if unit > 0 {
			s.advanceUnit = unit
		}
		if units > 0 {
			s.advanceUnits = units
		}
	}
}

// WithAdvanceHook is called after every auto-advance, outside the session lock.
func WithAdvanceHook(fn func(models.SessionSnapshot)) Option {
	return func(s *Session) { s.onAdvance = fn }
}

// New creates a session in the Introduction state.
func New(id, studentID string, bank *catalog.QuestionBank, composer *scoring.Composer, opts ...Option) *Session {
	s := &Session{
		id:           id,
		studentID:    studentID,
		bank:         bank,
		composer:     composer,
		state:        models.SessionIntroduction,
		ledger:       scoring.NewLedger(),
		advanceUnit:  DefaultAdvanceUnit,
		advanceUnits: DefaultAdvanceUnits,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.timer == nil {
		s.timer = NewRealTimer()
	}
	return s
}

func (s *Session) ID() string        { return s.id }
func (s *Session) StudentID() string { return s.studentID }

func (s *Session) Kind() models.AssessmentKind { return s.bank.Kind() }

func (s *Session) Snapshot() models.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Result returns the submitted result, if any.
func (s *Session) Result() (*models.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, false
	}
	return s.result.Clone(), true
}

func (s *Session) Start() (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(models.SessionIntroduction, "start"); err != nil {
		return s.snapshotLocked(), err
	}
	s.state = models.SessionActive
	return s.snapshotLocked(), nil
}

// Answer records or overwrites the response to questionID and restarts the
// countdown unless the current question is the last one.
func (s *Session) Answer(questionID, value int) (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(models.SessionActive, "answer"); err != nil {
		return s.snapshotLocked(), err
	}
	if err := s.ledger.Record(s.bank, questionID, value); err != nil {
		return s.snapshotLocked(), err
	}

	s.cancelTimerLocked()
	if s.index < s.bank.Len()-1 {
		s.armTimerLocked()
	}
	return s.snapshotLocked(), nil
}

func (s *Session) Next() (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(models.SessionActive, "next"); err != nil {
		return s.snapshotLocked(), err
	}
	if s.index >= s.bank.Len()-1 {
		return s.snapshotLocked(), apperrors.NewInvalidTransitionError(string(s.state), "next", "already at last question")
	}
	s.cancelTimerLocked()
	s.index++
	return s.snapshotLocked(), nil
}

func (s *Session) Previous() (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(models.SessionActive, "previous"); err != nil {
		return s.snapshotLocked(), err
	}
	if s.index == 0 {
		return s.snapshotLocked(), apperrors.NewInvalidTransitionError(string(s.state), "previous", "already at first question")
	}
	s.cancelTimerLocked()
	s.index--
	return s.snapshotLocked(), nil
}

func (s *Session) RequestExit() (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(models.SessionActive, "request exit"); err != nil {
		return s.snapshotLocked(), err
	}
	s.cancelTimerLocked()
	s.state = models.SessionConfirmExit
	return s.snapshotLocked(), nil
}

// DeclineExit returns to Active with index and responses untouched. The
// countdown is not re-armed.
func (s *Session) DeclineExit() (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(models.SessionConfirmExit, "decline exit"); err != nil {
		return s.snapshotLocked(), err
	}
	s.state = models.SessionActive
	return s.snapshotLocked(), nil
}

// ConfirmExit cancels the session and discards every response.
func (s *Session) ConfirmExit() (models.SessionSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(models.SessionConfirmExit, "confirm exit"); err != nil {
		return s.snapshotLocked(), err
	}
	s.cancelTimerLocked()
	s.ledger.Reset()
	s.state = models.SessionCanceled
	return s.snapshotLocked(), nil
}

// Submit scores a complete ledger and moves to Submitted. With questions
// left it returns IncompleteAssessmentError and the session stays Active.
func (s *Session) Submit() (models.SessionSnapshot, *models.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLocked(models.SessionActive, "submit"); err != nil {
		return s.snapshotLocked(), nil, err
	}
	if remaining := s.ledger.Remaining(s.bank); remaining > 0 {
		total := s.bank.Len()
		return s.snapshotLocked(), nil, apperrors.NewIncompleteAssessmentError(total-remaining, total)
	}

	result, err := s.composer.Compose(s.bank, s.ledger, s.studentID)
	if err != nil {
		return s.snapshotLocked(), nil, err
	}

	s.cancelTimerLocked()
	s.result = result
	s.state = models.SessionSubmitted
	return s.snapshotLocked(), result.Clone(), nil
}

// Close stops any pending countdown. The session state is unchanged.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelTimerLocked()
}

func (s *Session) requireLocked(want models.SessionState, action string) error {
	if s.state != want {
		return apperrors.NewInvalidTransitionError(string(s.state), action, "")
	}
	return nil
}

func (s *Session) armTimerLocked() {
	s.generation++
	gen := s.generation
	s.timer.Arm(time.Duration(s.advanceUnits)*s.advanceUnit, func() { s.fire(gen) })
}

func (s *Session) cancelTimerLocked() {
	s.generation++
	s.timer.Cancel()
}

// fire advances one question if the countdown that scheduled it is still the
// live one.
func (s *Session) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.state != models.SessionActive || s.index >= s.bank.Len()-1 {
		s.mu.Unlock()
		return
	}
	s.generation++
	s.index++
	snap := s.snapshotLocked()
	hook := s.onAdvance
	s.mu.Unlock()

	if hook != nil {
		hook(snap)
	}
}

func (s *Session) snapshotLocked() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		ID:                   s.id,
		Kind:                 s.bank.Kind(),
		StudentID:            s.studentID,
		State:                s.state,
		CurrentQuestionIndex: s.index,
		TotalQuestions:       s.bank.Len(),
		AnsweredCount:        s.ledger.Len(),
		Responses:            s.ledger.Responses(),
	}
	if !s.state.Terminal() {
		if q, ok := s.bank.At(s.index); ok {
			snap.CurrentQuestion = &q
		}
	}
	if s.state == models.SessionActive {
		if left, ok := s.timer.Remaining(); ok {
			units := int((left + s.advanceUnit - 1) / s.advanceUnit)
			snap.CountdownRemaining = &units
		}
	}
	return snap
}
