package classifiers

import (
	"fmt"
	"net/http"
	"strings"

	"codeberg.org/algorave/errorstack/internal/interceptor"
	"codeberg.org/algorave/errorstack/internal/parser"
)

// Validation turns a 400 response carrying data.errors into per-field errors.
// Each entry is expected as {"field": "...", "messages": ["...", ...]}.
func Validation(raw any, next parser.Next) parser.Result {
	rej, ok := interceptor.AsRejection(raw)
	if !ok || rej.Status != http.StatusBadRequest {
		return next(raw)
	}

	data, ok := dataMap(rej)
	if !ok {
		return next(raw)
	}

	entries, ok := data["errors"].([]any)
	if !ok {
		return next(raw)
	}

	message := stringField(data, "message")
	if message == "" {
		message = "We were unable to validate your submission"
	}

	fieldErrs := make([]parser.FieldError, 0, len(entries))
	for _, entry := range entries {
		m, _ := entry.(map[string]any)
		fieldErrs = append(fieldErrs, parser.FieldError{
			Field:   stringField(m, "field"),
			Message: joinMessages(m["messages"]),
		})
	}

	return parser.Resolve(parser.Record{
		Type:    TypeValidation,
		Title:   "Validation Error",
		Message: message,
		Detail:  rej,
		Errors:  fieldErrs,
	})
}

func joinMessages(v any) string {
	items, ok := v.([]any)
	if !ok {
		if s, ok := v.(string); ok {
			return s
		}
		return ""
	}

	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprint(item))
	}

	return strings.Join(parts, ",")
}
