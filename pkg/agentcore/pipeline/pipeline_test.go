package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/gateway"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/guard"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/schema"
)

func testIdentity() domain.AgentIdentity {
	return domain.AgentIdentity{
		AgentName: "failure-agent", AgentDomain: "llm-observability",
		Phase: domain.Phase, Layer: domain.Layer, AgentVersion: "1.0.0",
	}
}

func newTestPipeline(t *testing.T, handler http.HandlerFunc) (*Pipeline, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	gw := gateway.New(gateway.Config{ServiceURL: server.URL, APIKey: "k"})
	return New(testIdentity(), "failure_classification", "failure_signal", 1500, 2, gw, schema.New(), nil), server
}

func TestRun_SuccessEmitsDecisionEvent(t *testing.T) {
	p, server := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	result, err := p.Run(context.Background(), map[string]any{"span_id": "s1"}, func(g *guard.Guard) ([]any, []domain.EvidenceRef, float64, error) {
		return []any{map[string]any{"category": "timeout"}}, []domain.EvidenceRef{{RefType: domain.EvidenceRefSpanID, RefValue: "s1"}}, 0.9, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "failure_classification", result.Event.DecisionType)
	assert.Empty(t, result.Event.ConstraintsApplied)
	assert.Len(t, result.Event.Outputs, 1)
}

func TestRun_AnalysisErrorAbortsAsConstitutional(t *testing.T) {
	p, server := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	_, err := p.Run(context.Background(), map[string]any{}, func(g *guard.Guard) ([]any, []domain.EvidenceRef, float64, error) {
		return nil, nil, 0, errors.New("boom")
	})

	var aborted *Aborted
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, ReasonConstitutional, aborted.Reason)
	assert.Equal(t, 500, aborted.Reason.StatusCode())
}

func TestRun_GuardBoundaryAbortsAsPerformance(t *testing.T) {
	p, server := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	_, err := p.Run(context.Background(), map[string]any{}, func(g *guard.Guard) ([]any, []domain.EvidenceRef, float64, error) {
		_ = g.ReserveCall()
		_ = g.ReserveCall()
		return nil, nil, 0, g.ReserveCall()
	})

	var aborted *Aborted
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, ReasonPerformance, aborted.Reason)
	assert.Equal(t, 503, aborted.Reason.StatusCode())
}

func TestRun_PersistenceFailureAbortsAs502(t *testing.T) {
	p, server := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer server.Close()

	_, err := p.Run(context.Background(), map[string]any{}, func(g *guard.Guard) ([]any, []domain.EvidenceRef, float64, error) {
		return []any{map[string]any{"ok": true}}, nil, 0.5, nil
	})

	var aborted *Aborted
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, ReasonPersistence, aborted.Reason)
	assert.Equal(t, 502, aborted.Reason.StatusCode())
}

func TestRunBatch_PreservesOrderAndCollectsFailures(t *testing.T) {
	p, server := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	items := []any{"a", "b", "c"}
	result, itemResults, err := p.RunBatch(context.Background(), items, func(g *guard.Guard, index int) ([]any, []domain.EvidenceRef, float64, error) {
		if index == 1 {
			return nil, nil, 0, errors.New("item failed")
		}
		return []any{index}, nil, 1.0, nil
	}, false)

	require.NoError(t, err)
	assert.Len(t, result.Event.Outputs, 2)
	require.Len(t, itemResults, 3)
	assert.Equal(t, domain.BatchItemOK, itemResults[0].Status)
	assert.Equal(t, domain.BatchItemFailed, itemResults[1].Status)
	assert.Equal(t, domain.BatchItemOK, itemResults[2].Status)
}

func TestRunBatch_FailFastStopsEarly(t *testing.T) {
	p, server := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	defer server.Close()

	items := []any{"a", "b", "c"}
	_, itemResults, err := p.RunBatch(context.Background(), items, func(g *guard.Guard, index int) ([]any, []domain.EvidenceRef, float64, error) {
		if index == 0 {
			return nil, nil, 0, errors.New("item failed")
		}
		return []any{index}, nil, 1.0, nil
	}, true)

	// Item 0 failed and fail_fast stopped the batch, so nothing succeeded and
	// no aggregate event can be built.
	var aborted *Aborted
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, ReasonConstitutional, aborted.Reason)
	assert.Len(t, itemResults, 1)
}

func TestParseAndValidate_RejectsUnknownField(t *testing.T) {
	p, server := newTestPipeline(t, func(w http.ResponseWriter, r *http.Request) {})
	defer server.Close()

	var dest struct {
		Known string `json:"known" validate:"required"`
	}
	err := p.ParseAndValidate([]byte(`{"unknown":"x"}`), &dest)

	var aborted *Aborted
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, ReasonValidation, aborted.Reason)
}
