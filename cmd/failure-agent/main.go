// Command failure-agent serves the failure-classification analytical
// agent: it accepts normalized FailureEvents, runs them through the
// priority-ordered classification rule table, and persists exactly one
// DecisionEvent per request through the shared persistence gateway.
//
// Wiring mirrors the teacher's cmd/tarsy/main.go fail-fast startup sequence
// (flag parsing, optional .env load, config validation, reachability probe,
// then bind the HTTP server) generalized onto this repository's agent
// runtime core.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

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
	"github.com/ruvector-platform/agentcore/pkg/agentcore/schema"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/startup"
)

const (
	decisionType = "failure_classification"
	eventType    = "failure_signal"
)

func main() {
	envFile := flag.String("env-file", getEnv("ENV_FILE", ""), "Optional .env file to load before reading the environment")
	rulesFile := flag.String("rules-file", getEnv("RULES_FILE", ""), "Optional JSON rule table; falls back to the built-in default table")
	port := flag.String("port", getEnv("PORT", "8080"), "HTTP port to bind")
	ginMode := flag.String("gin-mode", getEnv("GIN_MODE", gin.ReleaseMode), "Gin engine mode")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load(*envFile, getEnv("AGENT_NAME", "failure-agent"), getEnv("AGENT_DOMAIN", "llm-observability"), decisionType)
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
	registerClassifyRoutes(router, p, engine, metrics)

	logger.Info("agent_listening", "port", *port)
	if err := router.Run(":" + *port); err != nil {
		logger.Error("agent_abort", "reason", "server_failed", "error", err.Error())
		os.Exit(1)
	}
}

func registerClassifyRoutes(router *gin.Engine, p *pipeline.Pipeline, engine *classify.Engine, metrics *agentmetrics.Metrics) {
	router.POST("/api/v1/classify", func(c *gin.Context) {
		handleClassify(c, p, engine, metrics)
	})
	router.POST("/api/v1/classify/batch", func(c *gin.Context) {
		handleClassifyBatch(c, p, engine, metrics)
	})
}

func handleClassify(c *gin.Context, p *pipeline.Pipeline, engine *classify.Engine, metrics *agentmetrics.Metrics) {
	raw, err := c.GetRawData()
	if err != nil {
		httpapi.RespondError(c, p.Identity, err)
		return
	}

	var event domain.FailureEvent
	if err := p.ParseAndValidate(raw, &event); err != nil {
		httpapi.RespondError(c, p.Identity, err)
		metrics.RecordAbort(string(pipeline.ReasonValidation))
		return
	}

	fields, err := toFields(event)
	if err != nil {
		httpapi.RespondError(c, p.Identity, err)
		return
	}

	result, err := p.Run(c.Request.Context(), event, func(g *guard.Guard) ([]any, []domain.EvidenceRef, float64, error) {
		started := time.Now()
		classification := engine.Classify(fields)
		classification.SpanID = event.SpanID
		classification.ClassifiedAt = time.Now().UTC()
		classification.ClassificationLatencyMs = time.Since(started).Milliseconds()

		refs := []domain.EvidenceRef{{RefType: domain.EvidenceRefSpanID, RefValue: event.SpanID}}
		if event.TraceID != "" {
			refs = append(refs, domain.EvidenceRef{RefType: domain.EvidenceRefTraceID, RefValue: event.TraceID})
		}
		return []any{classification}, refs, classification.Confidence, nil
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

func handleClassifyBatch(c *gin.Context, p *pipeline.Pipeline, engine *classify.Engine, metrics *agentmetrics.Metrics) {
	raw, err := c.GetRawData()
	if err != nil {
		httpapi.RespondError(c, p.Identity, err)
		return
	}

	var batch domain.BatchRequest
	if err := p.ParseAndValidate(raw, &batch); err != nil {
		httpapi.RespondError(c, p.Identity, err)
		metrics.RecordAbort(string(pipeline.ReasonValidation))
		return
	}

	items := make([]any, len(batch.Items))
	for i, item := range batch.Items {
		items[i] = item
	}

	result, itemResults, err := p.RunBatch(c.Request.Context(), items, func(g *guard.Guard, index int) ([]any, []domain.EvidenceRef, float64, error) {
		fields := batch.Items[index]
		classification := engine.Classify(fields)
		if spanID, ok := fields["span_id"].(string); ok {
			classification.SpanID = spanID
		}
		classification.ClassifiedAt = time.Now().UTC()

		var refs []domain.EvidenceRef
		if classification.SpanID != "" {
			refs = append(refs, domain.EvidenceRef{RefType: domain.EvidenceRefSpanID, RefValue: classification.SpanID})
		}
		return []any{classification}, refs, classification.Confidence, nil
	}, batch.FailFast)
	if err != nil {
		recordAbortStatus(metrics, err)
		httpapi.RespondError(c, p.Identity, err)
		return
	}

	succeeded, failed := 0, 0
	for _, ir := range itemResults {
		if ir.Status == domain.BatchItemOK {
			succeeded++
		} else {
			failed++
		}
	}

	metrics.RecordPersisted(p.DecisionType)
	httpapi.RespondSuccess(c, http.StatusOK, domain.BatchResult{
		Items:            itemResults,
		SucceededCount:   succeeded,
		FailedCount:      failed,
		ExecutionRef:     result.Event.ExecutionRef,
		ProcessingTimeMs: result.ProcessingTimeMs,
	}, p.Identity, result.Event.ExecutionRef, result.ProcessingTimeMs)
}

// toFields round-trips event through JSON into a generic map so the
// classification engine's dotted-path field extraction (e.g. "error.code")
// can walk it the same way it would walk any caller-supplied telemetry
// payload.
func toFields(event domain.FailureEvent) (map[string]any, error) {
	raw, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func recordAbortStatus(metrics *agentmetrics.Metrics, err error) int {
	var aborted *pipeline.Aborted
	if errors.As(err, &aborted) {
		metrics.RecordAbort(string(aborted.Reason))
		return aborted.Reason.StatusCode()
	}
	metrics.RecordAbort("InternalError")
	return http.StatusInternalServerError
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
