// Package startup implements the one-shot gate every agent process runs
// before serving its first request: mandatory environment variables must be
// present and the persistence gateway must be reachable. Failure logs a
// structured agent_abort line and the process exits immediately — grounded
// on the teacher's cmd/tarsy/main.go fail-fast startup sequence (config load
// errors there are also fatal, logged, and exit the process before the HTTP
// server binds).
package startup

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/config"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/gateway"
	"github.com/ruvector-platform/agentcore/pkg/version"
)

// Failed is returned by Assert (rather than exiting directly) so callers
// with non-standard exit paths (tests, alternate entry points) can still
// observe the failure. cmd/ binaries call os.Exit themselves on this error.
type Failed struct {
	Reason  string
	Details []string
}

func (e *Failed) Error() string {
	return "startup assertion failed: " + e.Reason
}

// GatewayTimeout bounds how long the reachability probe waits during
// startup, independent of the configured gateway client's own timeouts —
// startup should fail fast rather than hang the process indefinitely.
const GatewayTimeout = 10 * time.Second

// Assert runs the startup gate: cfg must already be non-nil (its own
// construction already enforced mandatory env vars — see config.Load), and
// the gateway must answer a health probe. On any failure it logs a single
// structured agent_abort JSON line to stdout via slog and returns a *Failed.
func Assert(ctx context.Context, logger *slog.Logger, cfg *config.Config, client *gateway.Client) error {
	if cfg == nil {
		logger.Error("agent_abort", "reason", "configuration_missing", "details", []string{"config.Load returned nil"})
		return &Failed{Reason: "configuration_missing"}
	}

	ctx, cancel := context.WithTimeout(ctx, GatewayTimeout)
	defer cancel()

	if err := client.Health(ctx); err != nil {
		logger.Error("agent_abort",
			"reason", "gateway_unreachable",
			"details", []string{err.Error()},
			"service_url", cfg.RuvectorServiceURL,
		)
		return &Failed{Reason: "gateway_unreachable", Details: []string{err.Error()}}
	}

	logger.Info("agent_started",
		"agent_name", cfg.Identity.AgentName,
		"agent_domain", cfg.Identity.AgentDomain,
		"agent_version", cfg.Identity.AgentVersion,
		"phase", cfg.Identity.Phase,
		"layer", cfg.Identity.Layer,
		"build", version.Full(),
	)
	return nil
}

// MustAssert runs Assert and exits the process with status 1 on failure,
// matching the spec's "log structured agent_abort and exit process
// immediately" requirement. Use this from cmd/ main functions.
func MustAssert(ctx context.Context, logger *slog.Logger, cfg *config.Config, client *gateway.Client) {
	if err := Assert(ctx, logger, cfg, client); err != nil {
		os.Exit(1)
	}
}
