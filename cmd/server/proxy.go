package main

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"codeberg.org/algorave/errorstack/internal/errors"
	"codeberg.org/algorave/errorstack/internal/interceptor"
	"codeberg.org/algorave/errorstack/internal/logger"
	"github.com/gin-gonic/gin"
)

// builds the reverse proxy to the upstream API; every failed round trip goes
// through the parser chain
func newProxy(upstreamURL string, chain interceptor.Executor) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(upstreamURL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream url: %w", err)
	}

	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid upstream url %q: scheme and host are required", upstreamURL)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Transport = interceptor.New(http.DefaultTransport, chain)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Warn("upstream request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprintf(w, `{"error":%q,"message":"upstream server unreachable"}`, errors.CodeUnavailable) //nolint:errcheck,gosec // best-effort error body
	}

	return proxy, nil
}

// forwards unmatched routes to the upstream API
func proxyHandler(proxy *httputil.ReverseProxy) gin.HandlerFunc {
	return func(c *gin.Context) {
		proxy.ServeHTTP(c.Writer, c.Request)
	}
}
