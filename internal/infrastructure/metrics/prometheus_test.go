package metrics_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/infrastructure/metrics"
)

func TestPrometheus_ObserveOperation(t *testing.T) {
	p := metrics.NewPrometheus()
	p.ObserveOperation("record_out", inventory.OutcomeOK, 10*time.Millisecond)
	p.ObserveOperation("record_out", inventory.OutcomeInsufficientStock, time.Millisecond)
	p.ObserveOperation("record_out", inventory.OutcomeOK, time.Millisecond)
	p.ObserveLockWait(2 * time.Millisecond)

	expected := `
# HELP almacen_ledger_operations_total Operaciones del ledger por tipo y resultado.
# TYPE almacen_ledger_operations_total counter
almacen_ledger_operations_total{op="record_out",outcome="insufficient_stock"} 1
almacen_ledger_operations_total{op="record_out",outcome="ok"} 2
`
	require.NoError(t, testutil.GatherAndCompare(p.Registry(), strings.NewReader(expected), "almacen_ledger_operations_total"))
}

func TestPrometheus_Handler(t *testing.T) {
	p := metrics.NewPrometheus()
	p.ObserveLockWait(time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "almacen_ledger_lock_wait_seconds_count 1")
}
