package domain

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// BatchItemStatus is the per-item outcome inside a BatchResult.
type BatchItemStatus string

const (
	BatchItemOK     BatchItemStatus = "ok"
	BatchItemFailed BatchItemStatus = "failed"
)

// BatchRequest wraps a homogeneous list of per-agent input items submitted
// to a `/*/batch` endpoint.
type BatchRequest struct {
	Items         []map[string]any `json:"items" validate:"required,min=1,max=1000"`
	CorrelationID string           `json:"correlation_id,omitempty"`
	FailFast      bool             `json:"fail_fast,omitempty"`
}

// BatchItemResult is the per-item outcome recorded in a BatchResult.
type BatchItemResult struct {
	Index  int             `json:"index"`
	Status BatchItemStatus `json:"status"`
	Error  string          `json:"error,omitempty"`
}

// BatchResult is the response body for a `/*/batch` request.
type BatchResult struct {
	Items             []BatchItemResult `json:"items"`
	SucceededCount    int               `json:"succeeded_count"`
	FailedCount       int               `json:"failed_count"`
	ExecutionRef      string            `json:"execution_ref"`
	ProcessingTimeMs  int64             `json:"processing_time_ms"`
}

// SloEnforcementRequest is the input schema for the SLO agent's /enforce
// endpoint.
type SloEnforcementRequest struct {
	Definitions []SloDefinition       `json:"definitions" validate:"required,min=1,dive"`
	Metrics     []MetricSample        `json:"metrics" validate:"required,min=1,dive"`
	History     map[string]HistoricalContext `json:"history,omitempty"`
}

// TimeWindow bounds a usage-analysis or query request.
type TimeWindow struct {
	Start       time.Time   `json:"start" validate:"required"`
	End         time.Time   `json:"end" validate:"required"`
	Granularity Granularity `json:"granularity" validate:"required,oneof=minute hour day week month"`
}

// UsageFilters narrows which events an analysis request considers.
type UsageFilters struct {
	Provider    string `json:"provider,omitempty"`
	Model       string `json:"model,omitempty"`
	Environment string `json:"environment,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

// UsageOptions toggles optional, more expensive analyses.
type UsageOptions struct {
	IncludeTrends      bool `json:"include_trends,omitempty"`
	IncludeSeasonality bool `json:"include_seasonality,omitempty"`
	PercentileSet      []int `json:"percentile_set,omitempty" validate:"omitempty,max=100"`
}

// AnalysisRequest is the input schema for the usage-pattern agent's
// /analyze endpoint.
type AnalysisRequest struct {
	Events     []TelemetryInput `json:"events" validate:"required,min=1"`
	TimeWindow TimeWindow       `json:"time_window" validate:"required"`
	Filters    UsageFilters     `json:"filters"`
	Options    UsageOptions     `json:"options"`
}

// PostMortemRequest is the input schema for the post-mortem agent's
// /synthesize endpoint: a caller-identified incident (its span IDs) plus the
// failure events the narrative is built from. The narrative text itself is
// produced by an external templating collaborator; this request only
// carries the structural evidence.
type PostMortemRequest struct {
	IncidentSpanIDs []string       `json:"incident_span_ids" validate:"required,min=1"`
	Events          []FailureEvent `json:"events" validate:"required,min=1,dive"`
}

// VisualizationRequest is the input schema for the visualization agent's
// /generate endpoint.
type VisualizationRequest struct {
	ChartType  string         `json:"chart_type" validate:"required"`
	Title      string         `json:"title" validate:"required"`
	XField     string         `json:"x_field" validate:"required"`
	YFields    []string       `json:"y_fields" validate:"required,min=1"`
	Filters    map[string]any `json:"filters,omitempty"`
	SourceRefs []string       `json:"source_refs" validate:"required,min=1"`
}

// DecisionQuery is the query-string for the outbound gateway's
// GET /api/v1/decision-events listing call. No agent in this repository
// serves a listing endpoint of its own.
type DecisionQuery struct {
	AgentID    string    `json:"agent_id,omitempty"`
	EventTypes []string  `json:"event_types,omitempty"`
	StartTime  time.Time `json:"start_time,omitempty"`
	EndTime    time.Time `json:"end_time,omitempty"`
	Limit      int       `json:"limit,omitempty"`
	Offset     int       `json:"offset,omitempty"`
	SortBy     string    `json:"sort_by,omitempty"`
	SortOrder  string    `json:"sort_order,omitempty"`
}

// Encode renders q as a URL query string for the outbound gateway call.
func (q DecisionQuery) Encode() string {
	v := url.Values{}
	if q.AgentID != "" {
		v.Set("agent_id", q.AgentID)
	}
	if len(q.EventTypes) > 0 {
		v.Set("event_types", strings.Join(q.EventTypes, ","))
	}
	if !q.StartTime.IsZero() {
		v.Set("start_time", q.StartTime.UTC().Format(time.RFC3339))
	}
	if !q.EndTime.IsZero() {
		v.Set("end_time", q.EndTime.UTC().Format(time.RFC3339))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.SortBy != "" {
		v.Set("sort_by", q.SortBy)
	}
	if q.SortOrder != "" {
		v.Set("sort_order", q.SortOrder)
	}
	return v.Encode()
}

// AggregateQuery is the parsed query-string for the outbound gateway's
// GET /api/v1/decision-events/aggregate call.
type AggregateQuery struct {
	AgentID   string    `json:"agent_id,omitempty"`
	StartTime time.Time `json:"start_time,omitempty"`
	EndTime   time.Time `json:"end_time,omitempty"`
	GroupBy   string    `json:"group_by,omitempty"`
}

// Encode renders q as a URL query string for the outbound gateway call.
func (q AggregateQuery) Encode() string {
	v := url.Values{}
	if q.AgentID != "" {
		v.Set("agent_id", q.AgentID)
	}
	if !q.StartTime.IsZero() {
		v.Set("start_time", q.StartTime.UTC().Format(time.RFC3339))
	}
	if !q.EndTime.IsZero() {
		v.Set("end_time", q.EndTime.UTC().Format(time.RFC3339))
	}
	if q.GroupBy != "" {
		v.Set("group_by", q.GroupBy)
	}
	return v.Encode()
}

// ErrorDetailResponse is the error payload shape carried in every
// unsuccessful API response.
type ErrorDetailResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// ResponseMetadata is carried on every API response, success or failure.
type ResponseMetadata struct {
	ExecutionRef     string `json:"execution_ref"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
	AgentID          string `json:"agent_id"`
	AgentVersion     string `json:"agent_version"`
}

// APIResponse is the envelope every agent HTTP handler returns.
type APIResponse struct {
	Success  bool                 `json:"success"`
	Data     any                  `json:"data,omitempty"`
	Error    *ErrorDetailResponse `json:"error,omitempty"`
	Metadata ResponseMetadata     `json:"metadata"`
}
