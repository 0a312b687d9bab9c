package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.Turn("dispatched")
	m.Turn("dispatched")
	m.Turn("no_speech")
	m.Action("tell_joke", 10*time.Millisecond)
	m.Fault("collaborator")

	require.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues("dispatched")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.turns.WithLabelValues("no_speech")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.actions.WithLabelValues("tell_joke")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.faults.WithLabelValues("collaborator")))
}

func TestNilIsNoop(t *testing.T) {
	var m *Metrics

	require.NotPanics(t, func() {
		m.Turn("x")
		m.Action("x", time.Second)
		m.Fault("x")
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.Action("report_time", time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `voxa_actions_total{kind="report_time"} 1`)
}
