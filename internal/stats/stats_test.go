package stats

import (
	"encoding/json"
	"expvar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expvar names are process-global, so the updater is built once for the
// whole package.
var testUpdater = NewStatsUpdater()

func TestStatsUpdater(t *testing.T) {
	assert.NotNil(t, testUpdater.updateChan, "expected updateChan to be initialized")

	testUpdater.RegisterMetric("QueriesTotal")
	testUpdater.Run()
	defer testUpdater.Stop()

	testUpdater.Incr("QueriesTotal")
	testUpdater.Incr("QueriesTotal")
	testUpdater.Decr("QueriesTotal")

	assert.Eventually(t, func() bool {
		return testUpdater.vars.Get("QueriesTotal").(*expvar.Int).Value() == 1
	}, time.Second, 10*time.Millisecond, "expected the counter to settle at 1")

	rr := httptest.NewRecorder()
	testUpdater.Handler().ServeHTTP(rr, httptest.NewRequest("GET", "/debug/vars", nil))

	var payload map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&payload))
	assert.Contains(t, payload, "QueriesTotal")
	assert.Contains(t, payload, "Uptime")
}

func TestNoopStats(t *testing.T) {
	var np NoopStats
	np.RegisterMetric("anything")
	np.Incr("anything")
	np.Decr("anything")
	np.Run()
}
