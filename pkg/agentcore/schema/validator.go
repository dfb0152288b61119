// Package schema implements the agent runtime's schema validator: it parses
// untyped request payloads against a declared input contract and reports
// structured field-path errors, grounded on the struct-tag validation
// convention the teacher's config package uses throughout (`validate:"..."`
// tags on every configuration struct).
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ruvector-platform/agentcore/pkg/agentcore/domain"
)

// FieldError is one structured validation failure, keyed by dotted field
// path.
type FieldError struct {
	Path     string `json:"path"`
	Message  string `json:"message"`
	Expected string `json:"expected,omitempty"`
	Received string `json:"received,omitempty"`
	Code     string `json:"code"`
}

// ValidationErrors is a non-empty list of FieldErrors. It satisfies the
// error interface so callers can return it directly, or type-assert it back
// out to inspect individual field failures.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(ve))
	for i, fe := range ve {
		parts[i] = fmt.Sprintf("%s: %s", fe.Path, fe.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator parses and validates payloads against Go struct types decorated
// with `validate:"..."` tags, in strict mode (unknown top-level fields are
// rejected).
type Validator struct {
	v *validator.Validate
}

// New constructs a Validator with the default go-playground/validator
// instance. JSON field-name resolution uses the `json` struct tag so
// reported paths match the wire contract rather than Go field names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Struct-level registrations enforce the two spec §3 data-model
	// invariants that a single field tag can't express on its own. They run
	// wherever a TokenUsage or Latency value is nested, recursively, in any
	// validated request, so this is the one place both invariants need
	// wiring.
	v.RegisterStructValidation(validateTokenUsage, domain.TokenUsage{})
	v.RegisterStructValidation(validateLatency, domain.Latency{})

	return &Validator{v: v}
}

func validateTokenUsage(sl validator.StructLevel) {
	tu := sl.Current().Interface().(domain.TokenUsage)
	if !tu.Valid() {
		sl.ReportError(tu.Total, "total", "Total", "token_total_below_sum", "")
	}
}

func validateLatency(sl validator.StructLevel) {
	l := sl.Current().Interface().(domain.Latency)
	if !l.Valid() {
		sl.ReportError(l.EndTime, "end_time", "EndTime", "end_time_before_start", "")
	}
}

// ParseStrict decodes raw JSON into a pointer-to-struct dest, rejecting any
// top-level field not present on dest, then runs struct validation. It
// returns ValidationErrors on any failure (decode or validation), never a
// bare error, so callers can always range over field-level detail.
func (val *Validator) ParseStrict(raw []byte, dest any) ValidationErrors {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return decodeErrorToFieldErrors(err)
	}
	return val.ValidateStruct(dest)
}

// ValidateStruct runs struct-tag validation on an already-populated value
// and translates go-playground/validator's errors into ValidationErrors with
// dotted, JSON-cased field paths.
func (val *Validator) ValidateStruct(dest any) ValidationErrors {
	err := val.v.Struct(dest)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return ValidationErrors{{
			Path:    "$root",
			Message: err.Error(),
			Code:    "invalid_value",
		}}
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Path: "$root", Message: err.Error(), Code: "unknown"}}
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Path:     jsonPath(fe.Namespace()),
			Message:  humanMessage(fe),
			Expected: fe.Param(),
			Received: fmt.Sprintf("%v", fe.Value()),
			Code:     validatorCode(fe.Tag(), fe.Param()),
		})
	}
	return out
}

// jsonPath strips the leading "TypeName." segment validator's Namespace()
// includes. The remaining segments are already JSON names: New registers a
// tag-name function that reports each field's `json` tag, falling back to
// the Go field name only when the tag is absent or "-".
func jsonPath(namespace string) string {
	idx := strings.Index(namespace, ".")
	if idx < 0 {
		return namespace
	}
	return namespace[idx+1:]
}

func humanMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "eq":
		return fmt.Sprintf("must equal %q", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "max":
		return fmt.Sprintf("must have length <= %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have length >= %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be <= %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "hexadecimal":
		return "must be a hexadecimal string"
	case "token_total_below_sum":
		return "total must be >= prompt+completion"
	case "end_time_before_start":
		return "end_time must be >= start_time"
	default:
		return fmt.Sprintf("failed validation on tag %q", fe.Tag())
	}
}

// validatorCode maps a go-playground/validator tag to the spec's stable
// error-code vocabulary. Tags that enforce a fixed literal value (eq, oneof
// on a single-value field, len=0) surface as invalid_literal, matching
// scenario 7 in the spec's testable properties.
func validatorCode(tag string, param string) string {
	switch tag {
	case "eq":
		return "invalid_literal"
	case "oneof":
		if !strings.Contains(strings.TrimSpace(param), " ") {
			return "invalid_literal"
		}
		return "invalid_value"
	case "len":
		if param == "0" {
			return "invalid_literal"
		}
		return "invalid_value"
	case "required":
		return "missing_required_field"
	case "token_total_below_sum", "end_time_before_start":
		return "invariant_violation"
	default:
		return "invalid_value"
	}
}

func decodeErrorToFieldErrors(err error) ValidationErrors {
	var syn *json.SyntaxError
	if errors.As(err, &syn) {
		return ValidationErrors{{Path: "$root", Message: err.Error(), Code: "invalid_json"}}
	}
	if strings.Contains(err.Error(), "unknown field") {
		field := strings.TrimSuffix(strings.TrimPrefix(err.Error(), `json: unknown field "`), `"`)
		return ValidationErrors{{Path: field, Message: "unknown field", Code: "unknown_field"}}
	}
	return ValidationErrors{{Path: "$root", Message: err.Error(), Code: "invalid_value"}}
}
