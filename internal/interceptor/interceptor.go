package interceptor

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "codeberg.org/algorave/errorstack/internal/errors"
	"codeberg.org/algorave/errorstack/internal/logger"
	"codeberg.org/algorave/errorstack/internal/metrics"
)

// Transport feeds failed round trips into the parser chain. The response and
// error returned to the caller are never changed.
type Transport struct {
	Base  http.RoundTripper
	Chain Executor
}

// wraps base (http.DefaultTransport when nil)
func New(base http.RoundTripper, chain Executor) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}

	return &Transport{Base: base, Chain: chain}
}

// returns an http.Client using the interceptor
func NewClient(base http.RoundTripper, chain Executor) *http.Client {
	return &http.Client{Transport: New(base, chain)}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.Base.RoundTrip(req)

	if err != nil {
		category := apperrors.Categorize(err)

		// the caller gave up; the server was not at fault
		if category == apperrors.CategoryCanceled {
			logger.Debug("request canceled by caller, skipping error parser",
				"method", req.Method,
				"url", redact(req.URL),
			)
			return resp, err
		}

		t.parse(&Rejection{
			Status:   StatusConnectionFailed,
			Config:   requestConfig(req),
			Category: category,
			Err:      err,
		})
		return resp, err
	}

	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}

	t.parse(&Rejection{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Data:       peekBody(resp),
		Config:     requestConfig(req),
		Headers:    resp.Header.Clone(),
	})

	return resp, nil
}

func (t *Transport) parse(rej *Rejection) {
	metrics.InterceptedFailures.WithLabelValues(statusLabel(rej)).Inc()

	if err := t.Chain.Execute(rej); err != nil {
		logger.ErrorErr(err, "error parser chain failed",
			"status", rej.Status,
			"method", rej.Config.Method,
			"url", rej.Config.URL,
		)
	}
}

// decodes up to maxBodyBytes of the body and puts the bytes back for the caller
func peekBody(resp *http.Response) any {
	if resp.Body == nil || resp.Body == http.NoBody {
		return nil
	}

	buf, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	resp.Body = &replayBody{
		Reader: io.MultiReader(bytes.NewReader(buf), resp.Body),
		closer: resp.Body,
	}

	if err != nil {
		logger.Warn("failed to read error response body", "error", err)
	}

	return decodeData(buf)
}

// returns the JSON value in body, the trimmed text when it is not JSON, or nil
func decodeData(body []byte) any {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return nil
	}

	var data any
	if err := json.Unmarshal(body, &data); err == nil {
		return data
	}

	return text
}

type replayBody struct {
	io.Reader
	closer io.Closer
}

func (b *replayBody) Close() error {
	return b.closer.Close()
}

func requestConfig(req *http.Request) RequestConfig {
	cfg := RequestConfig{Method: req.Method, Header: req.Header.Clone()}
	if req.URL != nil {
		cfg.URL = redact(req.URL)
	}

	return cfg
}

// returns raw without query string, fragment or user info
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		raw, _, _ = strings.Cut(raw, "#")
		raw, _, _ = strings.Cut(raw, "?")
		return raw
	}

	return redact(u)
}

func redact(u *url.URL) string {
	clean := *u
	clean.User = nil
	clean.RawQuery = ""
	clean.ForceQuery = false
	clean.Fragment = ""
	clean.RawFragment = ""

	return clean.String()
}

func statusLabel(rej *Rejection) string {
	if rej.Status == StatusConnectionFailed {
		return string(rej.Category)
	}

	return strconv.Itoa(rej.Status)
}
