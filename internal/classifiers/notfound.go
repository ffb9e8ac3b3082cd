package classifiers

import (
	"net/http"
	"strings"

	"codeberg.org/algorave/errorstack/internal/interceptor"
	"codeberg.org/algorave/errorstack/internal/parser"
)

// NotFound resolves 404 responses.
func NotFound(raw any, next parser.Next) parser.Result {
	rej, ok := interceptor.AsRejection(raw)
	if !ok || rej.Status != http.StatusNotFound {
		return next(raw)
	}

	data, _ := dataMap(rej)

	message := "Sorry, we weren't able to find that: " + stringField(data, "message")
	if strings.Contains(stringField(data, "entityName"), "PromoCode.code") {
		message = "Sorry, that promo code is not valid or does not exist."
	}

	return parser.Resolve(parser.Record{
		Type:    TypeNotFound,
		Message: strings.TrimSuffix(message, ": "),
		Detail:  rej,
	})
}
