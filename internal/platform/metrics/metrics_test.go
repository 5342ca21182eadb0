package metrics_test

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irctrack/internal/platform/metrics"
)

func TestWriteTextIncludesCounters(t *testing.T) {
	t.Parallel()
	m := metrics.New()
	m.CacheRequests.WithLabelValues("Solicitudes", "hit").Inc()
	m.Refreshes.Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Refreshes))

	buf := &bytes.Buffer{}
	require.NoError(t, m.WriteText(buf))
	assert.Contains(t, buf.String(), `irctrack_cache_requests_total{result="hit",table="Solicitudes"} 1`)
	assert.Contains(t, buf.String(), "irctrack_refreshes_total 1")
}
