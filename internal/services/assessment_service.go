package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/cache"
	"github.com/SAP-F-2025/career-assessment-service/internal/events"
	"github.com/SAP-F-2025/career-assessment-service/internal/metrics"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/career-assessment-service/internal/session"
	"github.com/SAP-F-2025/career-assessment-service/internal/validator"
	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Session outcomes reported to metrics.
const (
	OutcomeSubmitted = "submitted"
	OutcomeCanceled  = "canceled"
	OutcomeAbandoned = "abandoned"
)

// SessionConfig bounds the live session registry and sets the auto-advance
// countdown handed to every new session.
type SessionConfig struct {
	Capacity     int
	IdleTTL      time.Duration
	AdvanceUnit  time.Duration
	AdvanceUnits int
	// NewTimer overrides the real countdown timer, mainly for tests.
	NewTimer func() session.Timer
}

type assessmentService struct {
	catalog   CatalogService
	repo      repositories.ResultRepository
	cache     cache.CacheService
	cacheTTL  time.Duration
	publisher events.EventPublisher
	metrics   *metrics.Metrics
	validator *validator.Validator
	logger    *ServiceLogger
	config    SessionConfig
	sessions  *expirable.LRU[string, *session.Session]

	// unsaved holds scored results whose append failed, keyed by session id,
	// until a repeated Submit stores them.
	unsavedMu sync.Mutex
	unsaved   map[string]*models.Result
}

func NewAssessmentService(
	catalog CatalogService,
	repo repositories.ResultRepository,
	cacheService cache.CacheService,
	cacheTTL time.Duration,
	publisher events.EventPublisher,
	m *metrics.Metrics,
	validator *validator.Validator,
	logger *slog.Logger,
	config SessionConfig,
) AssessmentService {
	s := &assessmentService{
		catalog:   catalog,
		repo:      repo,
		cache:     cacheService,
		cacheTTL:  cacheTTL,
		publisher: publisher,
		metrics:   m,
		validator: validator,
		logger:    NewServiceLogger(logger, LogConfig{Service: "career-assessment", Component: "assessment"}),
		config:    config,
		unsaved:   make(map[string]*models.Result),
	}
	s.sessions = expirable.NewLRU[string, *session.Session](config.Capacity, s.onEvict, config.IdleTTL)
	return s
}

// onEvict runs under the registry lock, so it must not call back into it.
func (s *assessmentService) onEvict(id string, sess *session.Session) {
	sess.Close()
	s.metrics.SessionRemoved()
	if result, ok := s.takeUnsaved(id); ok {
		s.logger.logger.Error("Session evicted with an unstored result",
			"session_id", id, "result_id", result.ID, "student_id", result.StudentID)
	}
	if snap := sess.Snapshot(); !snap.State.Terminal() {
		s.metrics.SessionFinished(string(snap.Kind), OutcomeAbandoned)
		s.logger.Debug(context.Background(), "Session evicted before completion",
			"session_id", id, "state", snap.State, "answered", snap.AnsweredCount)
	}
}

func (s *assessmentService) CreateSession(ctx context.Context, studentID string, req *CreateSessionRequest) (snap *models.SessionSnapshot, err error) {
	op := s.logger.WithOperation(ctx, "create_session", studentID)
	sessionID := ""
	defer func() { s.finish(op, "create_session", sessionID, err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}

	cat, composer := s.catalog.Current()
	bank, err := cat.Bank(req.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKind, err)
	}

	sessionID = uuid.NewString()
	opts := []session.Option{
		session.WithCountdown(s.config.AdvanceUnit, s.config.AdvanceUnits),
		session.WithAdvanceHook(func(models.SessionSnapshot) {
			s.metrics.AutoAdvanced(string(req.Kind))
		}),
	}
	if s.config.NewTimer != nil {
		opts = append(opts, session.WithTimer(s.config.NewTimer()))
	}
	sess := session.New(sessionID, studentID, bank, composer, opts...)

	s.sessions.Add(sessionID, sess)
	s.metrics.SessionCreated(string(req.Kind))

	out := sess.Snapshot()
	return &out, nil
}

func (s *assessmentService) GetSession(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error) {
	sess, err := s.lookup(sessionID, studentID, "read")
	if err != nil {
		return nil, err
	}
	snap := sess.Snapshot()
	return &snap, nil
}

func (s *assessmentService) Start(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error) {
	snap, err := s.control(ctx, "start_session", sessionID, studentID, (*session.Session).Start)
	if err != nil {
		return nil, err
	}

	event := events.NewAssessmentStartedEvent(snap.ID, snap.Kind, snap.StudentID, snap.TotalQuestions, time.Now().UTC())
	s.publish(ctx, event)
	return snap, nil
}

func (s *assessmentService) Answer(ctx context.Context, sessionID, studentID string, req *AnswerRequest) (*models.SessionSnapshot, error) {
	snap, err := s.control(ctx, "answer", sessionID, studentID, func(sess *session.Session) (models.SessionSnapshot, error) {
		return sess.Answer(req.QuestionID, req.Value)
	})
	if err != nil {
		return nil, err
	}
	s.metrics.AnswerRecorded(string(snap.Kind))
	return snap, nil
}

func (s *assessmentService) Next(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error) {
	return s.control(ctx, "next_question", sessionID, studentID, (*session.Session).Next)
}

func (s *assessmentService) Previous(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error) {
	return s.control(ctx, "previous_question", sessionID, studentID, (*session.Session).Previous)
}

func (s *assessmentService) RequestExit(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error) {
	return s.control(ctx, "request_exit", sessionID, studentID, (*session.Session).RequestExit)
}

func (s *assessmentService) DeclineExit(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error) {
	return s.control(ctx, "decline_exit", sessionID, studentID, (*session.Session).DeclineExit)
}

// ConfirmExit cancels the session. Its responses are discarded and nothing
// is persisted; the canceled event only carries how far the student got.
func (s *assessmentService) ConfirmExit(ctx context.Context, sessionID, studentID string) (*models.SessionSnapshot, error) {
	answered := 0
	snap, err := s.control(ctx, "confirm_exit", sessionID, studentID, func(sess *session.Session) (models.SessionSnapshot, error) {
		answered = sess.Snapshot().AnsweredCount
		return sess.ConfirmExit()
	})
	if err != nil {
		return nil, err
	}

	s.metrics.SessionFinished(string(snap.Kind), OutcomeCanceled)
	event := events.NewAssessmentCanceledEvent(snap.ID, snap.Kind, snap.StudentID, answered, time.Now().UTC())
	s.publish(ctx, event)
	return snap, nil
}

// Submit scores the session, appends the result to the repository and
// publishes it. The result is returned even if caching or publishing fails.
// When the append fails the session is already Submitted; calling Submit
// again retries the append with the same result.
func (s *assessmentService) Submit(ctx context.Context, sessionID, studentID string) (resp *SubmitResponse, err error) {
	op := s.logger.WithOperation(ctx, "submit", studentID)
	defer func() { s.finish(op, "submit", sessionID, err) }()

	sess, err := s.lookup(sessionID, studentID, "submit")
	if err != nil {
		return nil, err
	}

	var (
		snap   models.SessionSnapshot
		result *models.Result
	)
	if pending, ok := s.takeUnsaved(sessionID); ok {
		snap, result = sess.Snapshot(), pending
	} else if snap, result, err = sess.Submit(); err != nil {
		return nil, err
	}

	if err = s.repo.Append(ctx, result); err != nil {
		s.keepUnsaved(sessionID, result)
		return nil, fmt.Errorf("failed to store result: %w", err)
	}

	if cacheErr := s.cache.Set(ctx, cache.ResultKey(result.ID), result, s.cacheTTL); cacheErr != nil {
		s.logger.logger.WarnContext(ctx, "Failed to cache result", "result_id", result.ID, "error", cacheErr)
	}
	if cacheErr := s.cache.Delete(ctx, cache.StudentResultsKey(result.StudentID)); cacheErr != nil {
		s.logger.logger.WarnContext(ctx, "Failed to invalidate student results", "student_id", result.StudentID, "error", cacheErr)
	}

	s.metrics.SessionFinished(string(result.Kind), OutcomeSubmitted)
	s.publish(ctx, events.NewAssessmentSubmittedEvent(snap.ID, result))

	return &SubmitResponse{Session: snap, Result: result}, nil
}

func (s *assessmentService) ActiveSessions() int {
	return s.sessions.Len()
}

// Close drops every live session and stops their countdowns.
func (s *assessmentService) Close() {
	s.sessions.Purge()
}

// ===== HELPERS =====

// control resolves the session, checks ownership and runs one state machine
// call with operation logging.
func (s *assessmentService) control(
	ctx context.Context,
	operation, sessionID, studentID string,
	call func(*session.Session) (models.SessionSnapshot, error),
) (snap *models.SessionSnapshot, err error) {
	op := s.logger.WithOperation(ctx, operation, studentID)
	defer func() { s.finish(op, operation, sessionID, err) }()

	sess, err := s.lookup(sessionID, studentID, operation)
	if err != nil {
		return nil, err
	}

	out, err := call(sess)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// lookup returns the owner's session and refreshes its idle deadline.
func (s *assessmentService) lookup(sessionID, studentID, action string) (*session.Session, error) {
	sess, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.StudentID() != studentID {
		return nil, NewPermissionError(studentID, sessionID, "session", action, "not the session owner")
	}
	s.sessions.Add(sessionID, sess)
	return sess, nil
}

func (s *assessmentService) keepUnsaved(sessionID string, result *models.Result) {
	s.unsavedMu.Lock()
	defer s.unsavedMu.Unlock()
	s.unsaved[sessionID] = result
}

func (s *assessmentService) takeUnsaved(sessionID string) (*models.Result, bool) {
	s.unsavedMu.Lock()
	defer s.unsavedMu.Unlock()
	result, ok := s.unsaved[sessionID]
	delete(s.unsaved, sessionID)
	return result, ok
}

func (s *assessmentService) finish(op *ContextualLogger, operation, sessionID string, err error) {
	status, duration := op.LogResult(sessionID, "session", err)
	s.metrics.ObserveOperation(operation, status, duration)
}

func (s *assessmentService) publish(ctx context.Context, event *events.AssessmentEvent) {
	if err := s.publisher.PublishAssessmentEvent(ctx, event); err != nil {
		s.logger.logger.ErrorContext(ctx, "Failed to publish assessment event",
			"event_id", event.ID, "event_type", event.Type, "error", err)
	}
}
