package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRecordLifecycle(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.SessionCreated("riasec")
	m.SessionCreated("mbti")
	m.AnswerRecorded("riasec")
	m.AnswerRecorded("riasec")
	m.AutoAdvanced("riasec")
	m.SessionFinished("riasec", "submitted")
	m.SessionRemoved()
	m.ObserveOperation("submit", "success", 10*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsCreated.WithLabelValues("riasec")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsLive))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.answers.WithLabelValues("riasec")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.autoAdvances.WithLabelValues("riasec")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsFinished.WithLabelValues("riasec", "submitted")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.operations))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.SessionCreated("riasec")
		m.SessionFinished("riasec", "canceled")
		m.SessionRemoved()
		m.AnswerRecorded("mbti")
		m.AutoAdvanced("mbti")
		m.ObserveOperation("start", "error", time.Second)
	})
}
