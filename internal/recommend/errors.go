package recommend

import (
	"fmt"
	"strings"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field    string   `json:"field"`
	Value    string   `json:"value"`
	Message  string   `json:"message"`
	Accepted []string `json:"accepted,omitempty"`
}

// InvalidParametersError is returned when a request fails validation. It
// lists every offending field, not just the first.
type InvalidParametersError struct {
	Fields []FieldError
}

func (e *InvalidParametersError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "invalid parameters: " + strings.Join(parts, "; ")
}

// errs collects field errors while a request is parsed.
type errs []FieldError

func (es *errs) add(field, value, msg string, accepted []string) {
	*es = append(*es, FieldError{Field: field, Value: value, Message: msg, Accepted: accepted})
}

func (es errs) err() error {
	if len(es) == 0 {
		return nil
	}
	return &InvalidParametersError{Fields: es}
}
