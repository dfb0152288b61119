package domain

import "time"

// InputKind tags the sum type carried by TelemetryInput.Input.
type InputKind string

const (
	InputText        InputKind = "text"
	InputChat        InputKind = "chat"
	InputMultimodal  InputKind = "multimodal"
)

// CallInput is the tagged union over the three shapes an LLM call's input
// can take. Exactly one of the payload fields is populated, matching Kind.
type CallInput struct {
	Kind        InputKind        `json:"kind" validate:"required,oneof=text chat multimodal"`
	Text        string           `json:"text,omitempty"`
	Chat        []ChatMessage    `json:"chat,omitempty"`
	Multimodal  []MultimodalPart `json:"multimodal,omitempty"`
}

// ChatMessage is one turn of a chat-shaped input.
type ChatMessage struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content"`
}

// MultimodalPart is one part of a multimodal-shaped input.
type MultimodalPart struct {
	Type string `json:"type" validate:"required"`
	Data string `json:"data,omitempty"`
	URI  string `json:"uri,omitempty"`
}

// TokenUsage reports token counts for one LLM call.
type TokenUsage struct {
	Prompt     int `json:"prompt" validate:"gte=0"`
	Completion int `json:"completion" validate:"gte=0"`
	Total      int `json:"total" validate:"gte=0"`
}

// Valid checks the spec invariant: total_tokens >= prompt+completion.
func (t TokenUsage) Valid() bool {
	return t.Total >= t.Prompt+t.Completion
}

// Cost reports the monetary cost of one LLM call.
type Cost struct {
	AmountUSD      float64  `json:"amount_usd" validate:"gte=0"`
	Currency       string   `json:"currency" validate:"required"`
	PromptCost     *float64 `json:"prompt_cost,omitempty"`
	CompletionCost *float64 `json:"completion_cost,omitempty"`
}

// Latency reports the timing envelope of one LLM call.
type Latency struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
	TotalMs   int64     `json:"total_ms" validate:"gte=0"`
	TTFTMs    *int64    `json:"ttft_ms,omitempty"`
}

// Valid checks the spec invariant: end_time >= start_time.
func (l Latency) Valid() bool {
	return !l.EndTime.Before(l.StartTime)
}

// Metadata carries caller-supplied context about one LLM call.
type Metadata struct {
	UserID      string            `json:"user_id,omitempty"`
	SessionID   string            `json:"session_id,omitempty"`
	Environment string            `json:"environment,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Attributes  map[string]any    `json:"attributes,omitempty"`
}

// Event is one ordered entry in a TelemetryInput's event log.
type Event struct {
	Name       string         `json:"name" validate:"required"`
	Timestamp  time.Time      `json:"timestamp"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// TelemetryInput is the normalized record of one LLM call, as received by
// every agent's analytical input.
type TelemetryInput struct {
	SpanID       string         `json:"span_id" validate:"required"`
	TraceID      string         `json:"trace_id" validate:"required"`
	ParentSpanID string         `json:"parent_span_id,omitempty"`
	Provider     Provider       `json:"provider" validate:"required"`
	CustomProvider string       `json:"custom_provider,omitempty"`
	Model        string         `json:"model" validate:"required"`
	Input        CallInput      `json:"input" validate:"required"`
	Output       string         `json:"output,omitempty"`
	TokenUsage   *TokenUsage    `json:"token_usage,omitempty"`
	Cost         *Cost          `json:"cost,omitempty"`
	Latency      Latency        `json:"latency" validate:"required"`
	Metadata     Metadata       `json:"metadata"`
	Status       Status         `json:"status" validate:"required,oneof=OK ERROR UNSET"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Events       []Event        `json:"events,omitempty"`
}

// ErrorDetail is the additional payload a FailureEvent carries alongside a
// TelemetryInput whose status is ERROR.
type ErrorDetail struct {
	Code          string `json:"code,omitempty"`
	Message       string `json:"message" validate:"required"`
	Type          string `json:"type,omitempty"`
	HTTPStatus    *int   `json:"http_status,omitempty" validate:"omitempty,gte=100,lte=599"`
	RetryAfterMs  *int64 `json:"retry_after_ms,omitempty" validate:"omitempty,gte=0"`
	RawResponse   string `json:"raw_response,omitempty"`
}

// FailureEvent is a TelemetryInput whose status is ERROR, carrying the
// mandatory ErrorDetail the classification engine reasons over.
type FailureEvent struct {
	TelemetryInput
	Error ErrorDetail `json:"error" validate:"required"`
}
