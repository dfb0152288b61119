// Package httpapi wires the Gin router every agent binary serves: structured
// request logging, the common health and metrics endpoints, and the
// response envelope every handler returns. Grounded on the teacher's
// pkg/api/handlers.go and cmd/tarsy/main.go gin.Default()/router.GET wiring,
// generalized from TARSy's session endpoints to this repository's
// AnalysisOutput envelope.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/gateway"
	agentmetrics "github.com/ruvector-platform/agentcore/pkg/agentcore/metrics"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/pipeline"
	"github.com/ruvector-platform/agentcore/pkg/agentcore/schema"
)

// NewRouter builds a Gin engine with the structured-logging and metrics
// middleware every agent shares. Route registration is left to the caller
// (each agent's cmd binary mounts its own analysis endpoints).
func NewRouter(logger *slog.Logger, m *agentmetrics.Metrics) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger, m))
	return router
}

// loggingMiddleware logs one structured line per request and records HTTP
// metrics, mirroring the startup package's agent_abort/agent_started JSON
// logging convention.
func loggingMiddleware(logger *slog.Logger, m *agentmetrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		logger.Info("http_request",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", duration.Milliseconds(),
		)
		if m != nil {
			m.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(status), duration)
		}
	}
}

// RegisterHealth mounts GET /health, probing the persistence gateway with
// its dedicated health timeout.
func RegisterHealth(router *gin.Engine, gw *gateway.Client) {
	router.GET("/health", func(c *gin.Context) {
		if err := gw.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}

// RegisterMetrics mounts GET /metrics, serving reg in the Prometheus
// exposition format.
func RegisterMetrics(router *gin.Engine, reg *prometheus.Registry) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
}

// RespondSuccess writes the common APIResponse envelope for a successful
// request.
func RespondSuccess(c *gin.Context, status int, data any, identity domain.AgentIdentity, executionRef string, processingMs int64) {
	c.JSON(status, domain.APIResponse{
		Success: true,
		Data:    data,
		Metadata: domain.ResponseMetadata{
			ExecutionRef:     executionRef,
			ProcessingTimeMs: processingMs,
			AgentID:          identity.AgentName,
			AgentVersion:     identity.AgentVersion,
		},
	})
}

// RespondError maps a pipeline error (an *Aborted, a *schema.ValidationErrors,
// or anything else) to the spec's HTTP status mapping and writes the common
// APIResponse error envelope. It returns the status code written, for the
// caller's metrics/logging.
func RespondError(c *gin.Context, identity domain.AgentIdentity, err error) int {
	status, code, details := classifyError(err)

	c.JSON(status, domain.APIResponse{
		Success: false,
		Error: &domain.ErrorDetailResponse{
			Code:    code,
			Message: err.Error(),
			Details: details,
		},
		Metadata: domain.ResponseMetadata{
			AgentID:      identity.AgentName,
			AgentVersion: identity.AgentVersion,
		},
	})
	return status
}

func classifyError(err error) (status int, code string, details []string) {
	var aborted *pipeline.Aborted
	if errors.As(err, &aborted) {
		status = aborted.Reason.StatusCode()
		code = string(aborted.Reason)

		var verrs schema.ValidationErrors
		if errors.As(aborted.Err, &verrs) {
			for _, fe := range verrs {
				details = append(details, fe.Path+": "+fe.Message)
			}
		}
		return status, code, details
	}

	var verrs schema.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, fe.Path+": "+fe.Message)
		}
		return http.StatusBadRequest, "ValidationError", details
	}

	return http.StatusInternalServerError, "InternalError", nil
}
