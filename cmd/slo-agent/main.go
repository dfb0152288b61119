// Command slo-agent serves the SLO-enforcement analytical agent: it accepts
// a caller-supplied definition table and metric samples, evaluates breach,
// near-breach, and severity per definition, and persists exactly one
// DecisionEvent covering every evaluated SLO.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/config"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/gateway"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/guard"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/httpapi"
	agentmetrics "github.com/ruvector-platform/agentcore/pkg/agentcore/metrics"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/pipeline"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/schema"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/slo"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/startup"
)

const (
	decisionType = "slo_enforcement"
	eventType    = "slo_violation_detection"
)

func main() {
	envFile := flag.String("env-file", getEnv("ENV_FILE", ""), "Optional .env file to load before reading the environment")
	port := flag.String("port", getEnv("PORT", "8080"), "HTTP port to bind")
	ginMode := flag.String("gin-mode", getEnv("GIN_MODE", gin.ReleaseMode), "Gin engine mode")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*envFile, getEnv("AGENT_NAME", "slo-agent"), getEnv("AGENT_DOMAIN", "llm-observability"), decisionType)
	if err != nil {
		logger.Error("agent_abort", "reason", "configuration_invalid", "error", err.Error())
		os.Exit(1)
	}

	gw := gateway.New(gateway.Config{
		ServiceURL:    cfg.RuvectorServiceURL,
		APIKey:        cfg.RuvectorAPIKey,
		UserAgent:     cfg.UserAgent(),
		PoolSize:      cfg.GatewayPoolSize,
		Timeout:       cfg.GatewayTimeout,
		HealthTimeout: cfg.GatewayHealthTimeout,
		RetryAttempts: cfg.GatewayRetryAttempts,
		RetryDelay:    cfg.GatewayRetryDelay,
		MaxRetryDelay: cfg.GatewayMaxRetryDelay,
	})

	ctx := context.Background()
	startup.MustAssert(ctx, logger, cfg, gw)

	reg := prometheus.NewRegistry()
	metrics := agentmetrics.New(reg)
	p := pipeline.New(cfg.Identity, decisionType, eventType, cfg.MaxLatencyMs, cfg.MaxCallsPerRun, gw, schema.New(), metrics)

	gin.SetMode(*ginMode)
	router := httpapi.NewRouter(logger, metrics)
	httpapi.RegisterHealth(router, gw)
	httpapi.RegisterMetrics(router, reg)
	router.POST("/api/v1/enforce", func(c *gin.Context) { handleEnforce(c, p, metrics) })

	logger.Info("agent_listening", "port", *port)
	if err := router.Run(":" + *port); err != nil {
		logger.Error("agent_abort", "reason", "server_failed", "error", err.Error())
		os.Exit(1)
	}
}

func handleEnforce(c *gin.Context, p *pipeline.Pipeline, metrics *agentmetrics.Metrics) {
	raw, err := c.GetRawData()
	if err != nil {
		httpapi.RespondError(c, p.Identity, err)
		return
	}

	var req domain.SloEnforcementRequest
	if err := p.ParseAndValidate(raw, &req); err != nil {
		httpapi.RespondError(c, p.Identity, err)
		metrics.RecordAbort(string(pipeline.ReasonValidation))
		return
	}

	result, err := p.Run(c.Request.Context(), req, func(g *guard.Guard) ([]any, []domain.EvidenceRef, float64, error) {
		enforcement := slo.Evaluate(req.Definitions, req.Metrics, req.History, slo.Options{})
		if enforcement.MetricsEvaluated == 0 {
			return nil, nil, 0, errors.New("no metric samples matched any enabled SLO definition")
		}

		refs := make([]domain.EvidenceRef, 0, len(req.Metrics))
		for _, m := range req.Metrics {
			refs = append(refs, domain.EvidenceRef{RefType: domain.EvidenceRefMetricID, RefValue: m.MetricID})
		}

		return []any{enforcement}, refs, enforcement.Confidence, nil
	})
	if err != nil {
		recordAbortStatus(metrics, err)
		httpapi.RespondError(c, p.Identity, err)
		return
	}

	metrics.RecordPersisted(p.DecisionType)
	metrics.RecordConfidence(p.DecisionType, result.Event.Confidence)
	httpapi.RespondSuccess(c, http.StatusOK, result.Event.Outputs[0], p.Identity, result.Event.ExecutionRef, result.ProcessingTimeMs)
}

func recordAbortStatus(metrics *agentmetrics.Metrics, err error) {
	var aborted *pipeline.Aborted
	if errors.As(err, &aborted) {
		metrics.RecordAbort(string(aborted.Reason))
		return
	}
	metrics.RecordAbort("InternalError")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
