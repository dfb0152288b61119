package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearRuvectorEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"RUVECTOR_SERVICE_URL", "RUVECTOR_API_KEY", "AGENT_PHASE", "AGENT_LAYER",
		"AGENT_VERSION", "RUVECTOR_TIMEOUT_MS", "RUVECTOR_RETRY_ATTEMPTS",
		"RUVECTOR_POOL_SIZE", "MAX_EVENTS_PER_ANALYSIS", "MAX_TIME_WINDOW_DAYS",
		"MAX_LATENCY_MS", "MAX_CALLS_PER_RUN", "SELF_OBSERVATION_ENABLED",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}

func TestLoad_MissingMandatoryVars(t *testing.T) {
	clearRuvectorEnv(t)
	_, err := Load("", "", "", "")
	require.Error(t, err)

	var me *MissingEnv
	require.ErrorAs(t, err, &me)
	assert.Contains(t, me.Vars, "RUVECTOR_SERVICE_URL")
	assert.Contains(t, me.Vars, "RUVECTOR_API_KEY")
	assert.Contains(t, me.Vars, "AGENT_NAME")
	assert.Contains(t, me.Vars, "AGENT_DOMAIN")
}

func TestLoad_AppliesDefaults(t *testing.T) {
	clearRuvectorEnv(t)
	t.Setenv("RUVECTOR_SERVICE_URL", "http://gateway.local")
	t.Setenv("RUVECTOR_API_KEY", "secret")
	t.Setenv("AGENT_PHASE", "phase1")
	t.Setenv("AGENT_LAYER", "layer1")

	cfg, err := Load("", "failure-classification-agent", "failure", "failure_classification")
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.GatewayRetryAttempts)
	assert.Equal(t, 5, cfg.GatewayPoolSize)
	assert.Equal(t, int64(1500), cfg.MaxLatencyMs)
	assert.Equal(t, int64(2), cfg.MaxCallsPerRun)
	assert.Equal(t, "failure-classification-agent/1.0.0", cfg.UserAgent())
}

func TestLoad_RejectsWrongPhaseLayer(t *testing.T) {
	clearRuvectorEnv(t)
	t.Setenv("RUVECTOR_SERVICE_URL", "http://gateway.local")
	t.Setenv("RUVECTOR_API_KEY", "secret")
	t.Setenv("AGENT_PHASE", "phase2")
	t.Setenv("AGENT_LAYER", "layer1")

	_, err := Load("", "failure-classification-agent", "failure", "failure_classification")
	require.Error(t, err)
}
