package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.ObserveTable(19840, 250*time.Millisecond)
	m.ObserveSolve(ScenarioSolo, 1651)
	m.ObserveSolve(ScenarioDuo, 1707)
	m.ObserveSolve(ScenarioDuo, 1707)
	m.ObserveMismatch()

	assert.Equal(t, 19840.0, testutil.ToFloat64(m.tableCells))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.solveTotal.WithLabelValues(ScenarioSolo)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.solveTotal.WithLabelValues(ScenarioDuo)))
	assert.Equal(t, 1707.0, testutil.ToFloat64(m.bestRelease.WithLabelValues(ScenarioDuo)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verifyMismatches))
	assert.Equal(t, 1, testutil.CollectAndCount(m.tableBuildSeconds))
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveSolve(ScenarioSolo, 42)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `releaseplan_best_release{scenario="solo"} 42`)
}
