package classifiers

import (
	"fmt"

	"codeberg.org/algorave/errorstack/internal/interceptor"
	"codeberg.org/algorave/errorstack/internal/parser"
)

// returns the classifier for requests that never reached the server
func NewConnectionRefused(cfg Config) parser.Classifier {
	cfg = cfg.withDefaults()
	message := fmt.Sprintf("Sorry, we weren't able to reach the %s server. Please check your internet connection.", cfg.ServerName)

	return func(raw any, next parser.Next) parser.Result {
		rej, ok := interceptor.AsRejection(raw)
		if !ok || rej.Status != interceptor.StatusConnectionFailed {
			return next(raw)
		}

		return parser.Resolve(parser.Record{
			Type:    TypeConnectionRefused,
			Title:   "Cannot Reach Server",
			Message: message,
			Detail:  rej,
		})
	}
}
