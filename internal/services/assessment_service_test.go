package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SAP-F-2025/career-assessment-service/internal/cache"
	"github.com/SAP-F-2025/career-assessment-service/internal/catalog"
	apperrors "github.com/SAP-F-2025/career-assessment-service/internal/errors"
	"github.com/SAP-F-2025/career-assessment-service/internal/events"
	"github.com/SAP-F-2025/career-assessment-service/internal/metrics"
	"github.com/SAP-F-2025/career-assessment-service/internal/models"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories"
	"github.com/SAP-F-2025/career-assessment-service/internal/repositories/memory"
	"github.com/SAP-F-2025/career-assessment-service/internal/session"
	"github.com/SAP-F-2025/career-assessment-service/internal/validator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is a CacheService backed by a map, JSON encoded like the redis
// implementation.
type memoryCache struct {
	mu      sync.Mutex
	items   map[string][]byte
	deleted []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string][]byte)}
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = data
	return nil
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	data, ok := c.items[key]
	c.mu.Unlock()
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	c.deleted = append(c.deleted, key)
	return nil
}

func (c *memoryCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// flakyResultRepo fails the first failures appends.
type flakyResultRepo struct {
	repositories.ResultRepository
	failures int
	attempts int
}

func (r *flakyResultRepo) Append(ctx context.Context, result *models.Result) error {
	r.attempts++
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset by peer")
	}
	return r.ResultRepository.Append(ctx, result)
}

type testEnv struct {
	manager   ServiceManager
	repo      repositories.ResultRepository
	cache     *memoryCache
	publisher *events.MockEventPublisher
	registry  *prometheus.Registry

	mu     sync.Mutex
	timers []*session.ManualTimer
}

func newTestEnv(t *testing.T, capacity int) *testEnv {
	t.Helper()
	return newTestEnvWithRepo(t, capacity, memory.NewResultMemory())
}

func newTestEnvWithRepo(t *testing.T, capacity int, repo repositories.ResultRepository) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := validator.New()
	cat, err := catalog.NewEmbeddedSource(v).Load(context.Background())
	require.NoError(t, err)

	env := &testEnv{
		repo:      repo,
		cache:     newMemoryCache(),
		publisher: events.NewMockEventPublisher(logger),
		registry:  prometheus.NewRegistry(),
	}
	env.manager = NewServiceManager(Dependencies{
		Catalog:        cat,
		Results:        env.repo,
		Cache:          env.cache,
		ResultCacheTTL: time.Minute,
		Publisher:      env.publisher,
		Metrics:        metrics.MustNewMetrics(env.registry),
		Validator:      v,
		Logger:         logger,
		Sessions: SessionConfig{
			Capacity:     capacity,
			IdleTTL:      time.Hour,
			AdvanceUnit:  time.Second,
			AdvanceUnits: 3,
			NewTimer: func() session.Timer {
				timer := session.NewManualTimer()
				env.mu.Lock()
				env.timers = append(env.timers, timer)
				env.mu.Unlock()
				return timer
			},
		},
		CareerMatchLimit: 10,
	})
	t.Cleanup(env.manager.Close)
	return env
}

func (e *testEnv) timer(i int) *session.ManualTimer {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timers[i]
}

// startSession creates and starts a session for studentID.
func (e *testEnv) startSession(t *testing.T, studentID string, kind models.AssessmentKind) string {
	t.Helper()
	ctx := context.Background()
	svc := e.manager.Assessment()

	snap, err := svc.CreateSession(ctx, studentID, &CreateSessionRequest{Kind: kind})
	require.NoError(t, err)
	_, err = svc.Start(ctx, snap.ID, studentID)
	require.NoError(t, err)
	return snap.ID
}

// answerAll answers every question of kind with value.
func (e *testEnv) answerAll(t *testing.T, sessionID, studentID string, kind models.AssessmentKind, value int) {
	t.Helper()
	questions, err := e.manager.Catalog().Questions(kind)
	require.NoError(t, err)
	for _, q := range questions {
		_, err := e.manager.Assessment().Answer(context.Background(), sessionID, studentID, &AnswerRequest{QuestionID: q.ID, Value: value})
		require.NoError(t, err)
	}
}

func (e *testEnv) eventTypes() []events.EventType {
	var types []events.EventType
	for _, event := range e.publisher.GetPublishedEvents() {
		types = append(types, event.Type)
	}
	return types
}

func TestAssessmentService_SubmitFlow(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	svc := env.manager.Assessment()

	id := env.startSession(t, "student-1", models.KindRIASEC)
	env.answerAll(t, id, "student-1", models.KindRIASEC, 5)

	resp, err := svc.Submit(ctx, id, "student-1")
	require.NoError(t, err)
	require.NotNil(t, resp.Result)

	assert.Equal(t, models.SessionSubmitted, resp.Session.State)
	assert.Equal(t, []models.Dimension{models.DimRealistic, models.DimInvestigative, models.DimArtistic},
		resp.Result.Classification.TopCategories)
	assert.Len(t, resp.Result.RankedMatches, 10)

	stored, err := env.repo.GetByID(ctx, resp.Result.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Result.DimensionScores, stored.DimensionScores)

	assert.True(t, env.cache.has(cache.ResultKey(resp.Result.ID)))
	assert.Contains(t, env.cache.deleted, cache.StudentResultsKey("student-1"))

	assert.Equal(t, []events.EventType{events.EventAssessmentStarted, events.EventAssessmentSubmitted}, env.eventTypes())

	expected := `
# HELP career_assessment_sessions_finished_total Assessment sessions that reached a terminal state or were evicted.
# TYPE career_assessment_sessions_finished_total counter
career_assessment_sessions_finished_total{kind="riasec",outcome="submitted"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(env.registry, strings.NewReader(expected),
		"career_assessment_sessions_finished_total"))

	_, err = svc.Submit(ctx, id, "student-1")
	assert.True(t, IsConflict(err))
}

func TestAssessmentService_SubmitRetriesFailedStore(t *testing.T) {
	repo := &flakyResultRepo{ResultRepository: memory.NewResultMemory(), failures: 1}
	env := newTestEnvWithRepo(t, 0, repo)
	ctx := context.Background()
	svc := env.manager.Assessment()

	id := env.startSession(t, "student-1", models.KindMBTI)
	env.answerAll(t, id, "student-1", models.KindMBTI, 6)

	_, err := svc.Submit(ctx, id, "student-1")
	require.Error(t, err)
	assert.False(t, IsConflict(err))
	assert.Equal(t, []events.EventType{events.EventAssessmentStarted}, env.eventTypes())

	snap, err := svc.GetSession(ctx, id, "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionSubmitted, snap.State)

	resp, err := svc.Submit(ctx, id, "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionSubmitted, resp.Session.State)
	assert.Equal(t, 2, repo.attempts)

	stored, err := env.repo.GetByID(ctx, resp.Result.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Result.Classification.TypeCode, stored.Classification.TypeCode)
	assert.Equal(t, []events.EventType{events.EventAssessmentStarted, events.EventAssessmentSubmitted}, env.eventTypes())

	_, err = svc.Submit(ctx, id, "student-1")
	assert.True(t, IsConflict(err))
	assert.Equal(t, 2, repo.attempts)
}

func TestAssessmentService_SubmitIncomplete(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	svc := env.manager.Assessment()

	id := env.startSession(t, "student-1", models.KindMBTI)
	questions, err := env.manager.Catalog().Questions(models.KindMBTI)
	require.NoError(t, err)
	for _, q := range questions[:len(questions)-1] {
		_, err := svc.Answer(ctx, id, "student-1", &AnswerRequest{QuestionID: q.ID, Value: 4})
		require.NoError(t, err)
	}

	_, err = svc.Submit(ctx, id, "student-1")
	require.Error(t, err)
	assert.True(t, IsIncomplete(err))

	var incomplete *apperrors.IncompleteAssessmentError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, 1, incomplete.Remaining)

	snap, err := svc.GetSession(ctx, id, "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionActive, snap.State)

	all, err := env.repo.ListAll(ctx, repositories.ResultFilters{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestAssessmentService_ConfirmExitPersistsNothing(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	svc := env.manager.Assessment()

	id := env.startSession(t, "student-1", models.KindRIASEC)
	_, err := svc.Answer(ctx, id, "student-1", &AnswerRequest{QuestionID: 1, Value: 3})
	require.NoError(t, err)
	_, err = svc.Answer(ctx, id, "student-1", &AnswerRequest{QuestionID: 2, Value: 4})
	require.NoError(t, err)

	snap, err := svc.RequestExit(ctx, id, "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionConfirmExit, snap.State)

	snap, err = svc.DeclineExit(ctx, id, "student-1")
	require.NoError(t, err)
	assert.Equal(t, 2, snap.AnsweredCount)

	_, err = svc.RequestExit(ctx, id, "student-1")
	require.NoError(t, err)
	snap, err = svc.ConfirmExit(ctx, id, "student-1")
	require.NoError(t, err)
	assert.Equal(t, models.SessionCanceled, snap.State)
	assert.Equal(t, 0, snap.AnsweredCount)

	published := env.publisher.GetPublishedEvents()
	require.Len(t, published, 2)
	canceled, ok := published[1].Data.(events.AssessmentCanceledEvent)
	require.True(t, ok)
	assert.Equal(t, 2, canceled.AnsweredCount)
	assert.Equal(t, id, canceled.SessionID)

	all, err := env.repo.ListAll(ctx, repositories.ResultFilters{})
	require.NoError(t, err)
	assert.Empty(t, all)

	_, err = svc.Answer(ctx, id, "student-1", &AnswerRequest{QuestionID: 3, Value: 3})
	assert.True(t, IsConflict(err))
}

func TestAssessmentService_Errors(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	svc := env.manager.Assessment()

	t.Run("unsupported kind", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "student-1", &CreateSessionRequest{Kind: "disc"})
		require.Error(t, err)
		assert.True(t, IsValidation(err))
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := svc.GetSession(ctx, "missing", "student-1")
		assert.ErrorIs(t, err, ErrSessionNotFound)
		assert.True(t, IsNotFound(err))
	})

	t.Run("other student's session", func(t *testing.T) {
		id := env.startSession(t, "student-1", models.KindRIASEC)
		_, err := svc.GetSession(ctx, id, "student-2")
		assert.ErrorIs(t, err, ErrSessionAccessDenied)
		assert.True(t, IsUnauthorized(err))

		var permErr *PermissionError
		require.ErrorAs(t, err, &permErr)
		assert.Equal(t, id, permErr.ResourceID)
	})

	t.Run("invalid answer", func(t *testing.T) {
		id := env.startSession(t, "student-1", models.KindRIASEC)
		_, err := svc.Answer(ctx, id, "student-1", &AnswerRequest{QuestionID: 1, Value: 9})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAnswer)
		assert.True(t, IsValidation(err))

		for _, req := range []*AnswerRequest{
			{QuestionID: 1, Value: 0},
			{QuestionID: 0, Value: 3},
			{QuestionID: 999, Value: 3},
		} {
			_, err = svc.Answer(ctx, id, "student-1", req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidAnswer, "question %d value %d", req.QuestionID, req.Value)
		}

		snap, err := svc.GetSession(ctx, id, "student-1")
		require.NoError(t, err)
		assert.Equal(t, 0, snap.AnsweredCount)
	})

	t.Run("answer while confirming exit", func(t *testing.T) {
		id := env.startSession(t, "student-1", models.KindRIASEC)
		_, err := svc.RequestExit(ctx, id, "student-1")
		require.NoError(t, err)

		_, err = svc.Answer(ctx, id, "student-1", &AnswerRequest{QuestionID: 1, Value: 0})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		assert.NotErrorIs(t, err, apperrors.ErrInvalidAnswer)
	})

	t.Run("navigation bounds", func(t *testing.T) {
		id := env.startSession(t, "student-1", models.KindRIASEC)
		_, err := svc.Previous(ctx, id, "student-1")
		assert.True(t, IsConflict(err))

		snap, err := svc.Next(ctx, id, "student-1")
		require.NoError(t, err)
		assert.Equal(t, 1, snap.CurrentQuestionIndex)
	})
}

func TestAssessmentService_AutoAdvance(t *testing.T) {
	env := newTestEnv(t, 0)
	ctx := context.Background()
	svc := env.manager.Assessment()

	id := env.startSession(t, "student-1", models.KindRIASEC)
	snap, err := svc.Answer(ctx, id, "student-1", &AnswerRequest{QuestionID: 1, Value: 4})
	require.NoError(t, err)
	require.NotNil(t, snap.CountdownRemaining)
	assert.Equal(t, 3, *snap.CountdownRemaining)

	env.timer(0).Advance(3 * time.Second)

	snap, err = svc.GetSession(ctx, id, "student-1")
	require.NoError(t, err)
	assert.Equal(t, 1, snap.CurrentQuestionIndex)
	assert.Nil(t, snap.CountdownRemaining)

	expected := `
# HELP career_assessment_sessions_auto_advances_total Countdown driven question advances, by kind.
# TYPE career_assessment_sessions_auto_advances_total counter
career_assessment_sessions_auto_advances_total{kind="riasec"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(env.registry, strings.NewReader(expected),
		"career_assessment_sessions_auto_advances_total"))
}

func TestAssessmentService_EvictionAbandonsSession(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx := context.Background()
	svc := env.manager.Assessment()

	first := env.startSession(t, "student-1", models.KindRIASEC)
	_, err := svc.Answer(ctx, first, "student-1", &AnswerRequest{QuestionID: 1, Value: 4})
	require.NoError(t, err)
	require.True(t, env.timer(0).Armed())

	second, err := svc.CreateSession(ctx, "student-2", &CreateSessionRequest{Kind: models.KindMBTI})
	require.NoError(t, err)

	assert.Equal(t, 1, svc.ActiveSessions())
	assert.False(t, env.timer(0).Armed())

	_, err = svc.GetSession(ctx, first, "student-1")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = svc.GetSession(ctx, second.ID, "student-2")
	assert.NoError(t, err)

	expected := `
# HELP career_assessment_sessions_finished_total Assessment sessions that reached a terminal state or were evicted.
# TYPE career_assessment_sessions_finished_total counter
career_assessment_sessions_finished_total{kind="riasec",outcome="abandoned"} 1
# HELP career_assessment_sessions_live Sessions currently held in the registry.
# TYPE career_assessment_sessions_live gauge
career_assessment_sessions_live 1
`
	assert.NoError(t, testutil.GatherAndCompare(env.registry, strings.NewReader(expected),
		"career_assessment_sessions_finished_total", "career_assessment_sessions_live"))
}
