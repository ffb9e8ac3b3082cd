package classifiers

import (
	"strings"

	"codeberg.org/algorave/errorstack/internal/interceptor"
)

// returns the rejection's body as a JSON object
func dataMap(rej *interceptor.Rejection) (map[string]any, bool) {
	m, ok := rej.Data.(map[string]any)
	return m, ok
}

// returns the rejection's body when it is a plain string
func dataString(rej *interceptor.Rejection) (string, bool) {
	s, ok := rej.Data.(string)
	return s, ok
}

// returns m[key] when it is a string
func stringField(m map[string]any, key string) string {
	if m == nil {
		return ""
	}

	s, _ := m[key].(string)
	return s
}

// returns the bearer token sent with the failed request
func bearerToken(rej *interceptor.Rejection) string {
	header := rej.Config.Header.Get("Authorization")

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}

	return strings.TrimSpace(token)
}
