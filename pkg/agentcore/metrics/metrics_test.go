package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordHTTPRequest_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordHTTPRequest("POST", "/classify", "200", 10*time.Millisecond)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/classify", "200")))
}

func TestRecordAbort_IncrementsByReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordAbort("ValidationError")
	m.RecordAbort("ValidationError")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestsAborted.WithLabelValues("ValidationError")))
}

func TestRecordPersisted_IncrementsByDecisionType(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordPersisted("failure_classification")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.DecisionEventsPersisted.WithLabelValues("failure_classification")))
}
