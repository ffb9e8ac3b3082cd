package classifiers

import (
	"codeberg.org/algorave/errorstack/internal/interceptor"
	"codeberg.org/algorave/errorstack/internal/parser"
)

// RestDefault resolves the usual REST API error bodies: a plain string, or an
// object with a message (and optionally a code).
func RestDefault(raw any, next parser.Next) parser.Result {
	rej, ok := interceptor.AsRejection(raw)
	if !ok {
		return next(raw)
	}

	if text, ok := dataString(rej); ok && text != "" {
		return parser.Resolve(parser.Record{
			Type:         TypeRestDefault,
			Message:      text,
			ExtendedInfo: rej,
		})
	}

	data, ok := dataMap(rej)
	if !ok {
		return next(raw)
	}

	message, ok := data["message"].(string)
	if !ok {
		return next(raw)
	}

	return parser.Resolve(parser.Record{
		Type:         TypeRestDefault,
		Message:      message,
		Detail:       data["code"],
		ExtendedInfo: rej,
	})
}
