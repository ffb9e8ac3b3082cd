package classifiers

import (
	"net/http"
	"time"

	"codeberg.org/algorave/errorstack/internal/interceptor"
	"codeberg.org/algorave/errorstack/internal/logger"
	"codeberg.org/algorave/errorstack/internal/parser"
	"github.com/golang-jwt/jwt/v5"
)

const (
	messageLoginRequired  = "Sorry, you need to login first."
	messageSessionExpired = "Your session has expired. Please log in again."
	messageInvalidLogin   = "Invalid username or password provided."
	messageDenied         = "Sorry, you do not have permission to perform that action."
)

// returns the classifier for 401 and 403 responses
func NewAuth(cfg Config) parser.Classifier {
	cfg = cfg.withDefaults()

	return func(raw any, next parser.Next) parser.Result {
		rej, ok := interceptor.AsRejection(raw)
		if !ok {
			return next(raw)
		}

		switch rej.Status {
		case http.StatusUnauthorized:
			return unauthorized(cfg, rej)
		case http.StatusForbidden:
			return forbidden(rej)
		default:
			return next(raw)
		}
	}
}

func unauthorized(cfg Config, rej *interceptor.Rejection) parser.Result {
	data, _ := dataMap(rej)

	if stringField(data, "code") == codePromoMaxUsesExceed {
		logger.Debug("auth classifier: promo code max uses exceeded")
		return parser.Resolve(parser.Record{
			Type:    TypePromoCodeMaxUses,
			Message: stringField(data, "message"),
			Detail:  rej,
		})
	}

	if cfg.LoginPattern.MatchString(rej.Config.URL) {
		logger.Debug("auth classifier: invalid credentials during login")
		return parser.Resolve(parser.Record{
			Type:    TypeInvalidLogin,
			Title:   "Invalid Login Details",
			Message: messageInvalidLogin,
			Detail:  rej,
		})
	}

	if cfg.LogoutPattern.MatchString(rej.Config.URL) {
		logger.Debug("auth classifier: error during logout, suppressing")
		return parser.Suppress()
	}

	message := stringField(data, "message")
	if message == "" {
		message = messageLoginRequired
		if tokenExpired(bearerToken(rej)) {
			message = messageSessionExpired
		}
	}

	logger.Debug("auth classifier: invalid or expired token")
	return parser.Resolve(parser.Record{
		Type:    TypeAuthRequired,
		Title:   "Login Required",
		Message: message,
		Detail:  rej,
	})
}

func forbidden(rej *interceptor.Rejection) parser.Result {
	message, ok := dataString(rej)
	if !ok || message == "" {
		message = messageDenied
	}

	return parser.Resolve(parser.Record{
		Type:    TypeAuthDenied,
		Title:   "Permission Denied",
		Message: message,
		Detail:  rej,
	})
}

// reports whether token is a JWT whose exp claim is in the past. The signature
// is not checked: the token belongs to the upstream API.
func tokenExpired(token string) bool {
	if token == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}
