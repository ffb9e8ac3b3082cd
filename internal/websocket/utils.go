package websocket

import (
	"net/http"
	"os"
	"slices"
	"strings"

	"codeberg.org/algorave/errorstack/internal/logger"
	"github.com/google/uuid"
)

func getAllowedWebSocketOrigins() []string {
	if envOrigins := os.Getenv("ALLOWED_ORIGINS"); envOrigins != "" {
		origins := strings.Split(envOrigins, ",")

		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}

		return origins
	}

	return []string{}
}

func CheckOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	env := os.Getenv("ENVIRONMENT")

	if env != "production" {
		return true
	}

	if origin == "" {
		logger.Warn("websocket connection with no origin header")
		return false
	}

	allowedOrigins := getAllowedWebSocketOrigins()

	if len(allowedOrigins) == 0 {
		logger.Warn("websocket origin rejected - ALLOWED_ORIGINS not configured",
			"origin", origin,
		)
		return false
	}

	if slices.Contains(allowedOrigins, origin) {
		return true
	}

	logger.Warn("websocket origin rejected - not in allowed origins",
		"origin", origin,
		"allowed_origins", allowedOrigins,
	)

	return false
}

func GenerateClientID() string {
	return uuid.NewString()
}

// strips internal detail from error strings sent to clients in production
func sanitizeErrorString(details string) string {
	if os.Getenv("ENVIRONMENT") == "production" {
		return ""
	}

	return details
}
