// Package config loads an agent's process-scoped configuration from
// environment variables, optionally seeded from a .env file via godotenv —
// the teacher loads its dev-time secrets the same way in cmd/tarsy/main.go.
// Grounded on the teacher's database.LoadConfigFromEnv: getEnvOrDefault plus
// typed parsing, validated once at construction.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// MissingEnv reports a mandatory environment variable that was not set.
// The cmd binaries log this as agent_abort and exit the process.
type MissingEnv struct {
	Vars []string
}

func (e *MissingEnv) Error() string {
	return fmt.Sprintf("missing required environment variables: %v", e.Vars)
}

// Config is an agent process's frozen configuration, loaded once at startup
// and never mutated thereafter.
type Config struct {
	Identity domain.AgentIdentity

	RuvectorServiceURL string
	RuvectorAPIKey     string

	GatewayTimeout       time.Duration
	GatewayRetryAttempts int
	GatewayRetryDelay    time.Duration
	GatewayMaxRetryDelay time.Duration
	GatewayPoolSize      int
	GatewayHealthTimeout time.Duration

	MaxEventsPerAnalysis int
	MaxTimeWindowDays    int
	SelfObservationOn    bool

	MaxLatencyMs   int64
	MaxCallsPerRun int64

	CacheTTL time.Duration
}

// Load reads configuration from the process environment. envFile, if
// non-empty, is loaded via godotenv before env vars are read (missing file
// is not an error — godotenv.Load returning an error for an absent file is
// ignored, matching the teacher's optional-.env convention).
func Load(envFile string, agentName, agentDomain, decisionType string) (*Config, error) {
	if envFile != "" {
		_ = godotenv.Load(envFile)
	}

	var missing []string
	requireEnv := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	serviceURL := requireEnv("RUVECTOR_SERVICE_URL")
	apiKey := requireEnv("RUVECTOR_API_KEY")
	phase := getEnvOrDefault("AGENT_PHASE", domain.Phase)
	layer := getEnvOrDefault("AGENT_LAYER", domain.Layer)

	if phase != domain.Phase {
		missing = append(missing, "AGENT_PHASE")
	}
	if layer != domain.Layer {
		missing = append(missing, "AGENT_LAYER")
	}
	if agentName == "" {
		missing = append(missing, "AGENT_NAME")
	}
	if agentDomain == "" {
		missing = append(missing, "AGENT_DOMAIN")
	}

	if len(missing) > 0 {
		return nil, &MissingEnv{Vars: missing}
	}

	version := getEnvOrDefault("AGENT_VERSION", "1.0.0")

	timeout, err := parseDurationMs("RUVECTOR_TIMEOUT_MS", 30_000)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDurationMs("RUVECTOR_RETRY_DELAY_MS", 1_000)
	if err != nil {
		return nil, err
	}
	maxRetryDelay, err := parseDurationMs("RUVECTOR_MAX_RETRY_DELAY_MS", 10_000)
	if err != nil {
		return nil, err
	}
	healthTimeout, err := parseDurationMs("RUVECTOR_HEALTH_TIMEOUT_MS", 5_000)
	if err != nil {
		return nil, err
	}
	retryAttempts, err := parseIntEnv("RUVECTOR_RETRY_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	poolSize, err := parseIntEnv("RUVECTOR_POOL_SIZE", 5)
	if err != nil {
		return nil, err
	}
	maxEvents, err := parseIntEnv("MAX_EVENTS_PER_ANALYSIS", 10_000)
	if err != nil {
		return nil, err
	}
	maxWindowDays, err := parseIntEnv("MAX_TIME_WINDOW_DAYS", 90)
	if err != nil {
		return nil, err
	}
	maxLatencyMs, err := parseIntEnv("MAX_LATENCY_MS", 1500)
	if err != nil {
		return nil, err
	}
	maxCallsPerRun, err := parseIntEnv("MAX_CALLS_PER_RUN", 2)
	if err != nil {
		return nil, err
	}
	selfObservation, err := parseBoolEnv("SELF_OBSERVATION_ENABLED", false)
	if err != nil {
		return nil, err
	}

	identity := domain.AgentIdentity{
		AgentName:    agentName,
		AgentDomain:  agentDomain,
		Phase:        phase,
		Layer:        layer,
		AgentVersion: version,
	}
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	return &Config{
		Identity:             identity,
		RuvectorServiceURL:   serviceURL,
		RuvectorAPIKey:       apiKey,
		GatewayTimeout:       timeout,
		GatewayRetryAttempts: retryAttempts,
		GatewayRetryDelay:    retryDelay,
		GatewayMaxRetryDelay: maxRetryDelay,
		GatewayPoolSize:      poolSize,
		GatewayHealthTimeout: healthTimeout,
		MaxEventsPerAnalysis: maxEvents,
		MaxTimeWindowDays:    maxWindowDays,
		SelfObservationOn:    selfObservation,
		MaxLatencyMs:         int64(maxLatencyMs),
		MaxCallsPerRun:       int64(maxCallsPerRun),
		CacheTTL:             60 * time.Second,
	}, nil
}

// UserAgent renders the spec's mandated outbound User-Agent header:
// "<agent>/<version>".
func (c *Config) UserAgent() string {
	return c.Identity.AgentName + "/" + c.Identity.AgentVersion
}

func getEnvOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func parseIntEnv(key string, defaultVal int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseDurationMs(key string, defaultMs int) (time.Duration, error) {
	n, err := parseIntEnv(key, defaultMs)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Millisecond, nil
}

func parseBoolEnv(key string, defaultVal bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
