// Command postmortem-agent serves the post-mortem synthesis agent: it
// accepts an incident's failure events, classifies each one, orders them
// into a timeline, and persists exactly one DecisionEvent carrying the
// structural shape of the incident. The narrative prose wrapped around
// this structure is produced by an external templating collaborator this
// repository does not implement.
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

	"github.com/ruvector-platform/agentcore/pkg/agentcore/classify"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/config"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/gateway"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/guard"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/httpapi"
	agentmetrics "github.com/ruvector-platform/agentcore/pkg/agentcore/metrics"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/pipeline"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/postmortem"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/schema"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/startup"
)

const (
	decisionType = "post_mortem_synthesis"
	eventType    = "post_mortem_signal"
)

func main() {
	envFile := flag.String("env-file", getEnv("ENV_FILE", ""), "Optional .env file to load before reading the environment")
	rulesFile := flag.String("rules-file", getEnv("RULES_FILE", ""), "Optional JSON rule table; falls back to the built-in default table")
	port := flag.String("port", getEnv("PORT", "8080"), "HTTP port to bind")
	ginMode := flag.String("gin-mode", getEnv("GIN_MODE", gin.ReleaseMode), "Gin engine mode")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*envFile, getEnv("AGENT_NAME", "postmortem-agent"), getEnv("AGENT_DOMAIN", "llm-observability"), decisionType)
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

	rules := classify.DefaultRules()
	if *rulesFile != "" {
		loaded, err := classify.LoadRules(*rulesFile)
		if err != nil {
			logger.Error("agent_abort", "reason", "rules_invalid", "error", err.Error())
			os.Exit(1)
		}
		rules = loaded
	}
	engine, err := classify.New(rules)
	if err != nil {
		logger.Error("agent_abort", "reason", "rules_invalid", "error", err.Error())
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	metrics := agentmetrics.New(reg)
	p := pipeline.New(cfg.Identity, decisionType, eventType, cfg.MaxLatencyMs, cfg.MaxCallsPerRun, gw, schema.New(), metrics)

	gin.SetMode(*ginMode)
	router := httpapi.NewRouter(logger, metrics)
	httpapi.RegisterHealth(router, gw)
	httpapi.RegisterMetrics(router, reg)
	router.POST("/api/v1/synthesize", func(c *gin.Context) { handleSynthesize(c, p, engine, metrics) })

	logger.Info("agent_listening", "port", *port)
	if err := router.Run(":" + *port); err != nil {
		logger.Error("agent_abort", "reason", "server_failed", "error", err.Error())
		os.Exit(1)
	}
}

func handleSynthesize(c *gin.Context, p *pipeline.Pipeline, engine *classify.Engine, metrics *agentmetrics.Metrics) {
	raw, err := c.GetRawData()
	if err != nil {
		httpapi.RespondError(c, p.Identity, err)
		return
	}

	var req domain.PostMortemRequest
	if err := p.ParseAndValidate(raw, &req); err != nil {
		httpapi.RespondError(c, p.Identity, err)
		metrics.RecordAbort(string(pipeline.ReasonValidation))
		return
	}

	result, err := p.Run(c.Request.Context(), req, func(g *guard.Guard) ([]any, []domain.EvidenceRef, float64, error) {
		report, classifications := postmortem.Synthesize(req.IncidentSpanIDs, req.Events, engine)
		if len(classifications) == 0 {
			return nil, nil, 0, errors.New("no failure events to synthesize")
		}

		refs := make([]domain.EvidenceRef, 0, len(req.Events))
		for _, e := range req.Events {
			refs = append(refs, domain.EvidenceRef{RefType: domain.EvidenceRefSpanID, RefValue: e.SpanID})
		}

		confidenceSum := 0.0
		for _, cl := range classifications {
			confidenceSum += cl.Confidence
		}
		return []any{report}, refs, confidenceSum / float64(len(classifications)), nil
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
