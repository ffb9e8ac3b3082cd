package interceptor

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "codeberg.org/algorave/errorstack/internal/errors"
	"codeberg.org/algorave/errorstack/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	published []parser.Record
}

func (s *recordingSink) Publish(rec parser.Record) { s.published = append(s.published, rec) }
func (s *recordingSink) Clear()                    {}

type fakeChain struct {
	calls []any
	err   error
}

func (f *fakeChain) Execute(raw any) error {
	f.calls = append(f.calls, raw)
	return f.err
}

func TestRoundTripSuccessSkipsChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	chain := &fakeChain{}
	client := NewClient(nil, chain)

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, chain.calls)
}

func TestRoundTripErrorStatusRunsChain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no such thing"}`))
	}))
	defer srv.Close()

	chain := &fakeChain{}
	client := NewClient(nil, chain)

	resp, err := client.Get(srv.URL + "/things/1")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	require.Len(t, chain.calls, 1)
	rej, ok := AsRejection(chain.calls[0])
	require.True(t, ok)

	assert.Equal(t, http.StatusNotFound, rej.Status)
	assert.Equal(t, "Not Found", rej.StatusText)
	assert.Equal(t, map[string]any{"message": "no such thing"}, rej.Data)
	assert.Equal(t, http.MethodGet, rej.Config.Method)
	assert.Equal(t, srv.URL+"/things/1", rej.Config.URL)

	// the caller still sees the original response
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"message":"no such thing"}`, string(body))
}

func TestRoundTripTextBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	}))
	defer srv.Close()

	chain := &fakeChain{}
	resp, err := NewClient(nil, chain).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	require.Len(t, chain.calls, 1)
	rej, _ := AsRejection(chain.calls[0])
	assert.Equal(t, "upstream exploded", rej.Data)
}

func TestRoundTripConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	chain := &fakeChain{}
	_, err := NewClient(nil, chain).Get(url)
	require.Error(t, err)

	require.Len(t, chain.calls, 1)
	rej, ok := AsRejection(chain.calls[0])
	require.True(t, ok)

	assert.Equal(t, StatusConnectionFailed, rej.Status)
	assert.Equal(t, apperrors.CategoryNetwork, rej.Category)
	assert.Error(t, rej.Err)
}

func TestRoundTripSkipsCanceledRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	chain := &fakeChain{}
	_, err = NewClient(nil, chain).Do(req)
	require.Error(t, err)

	assert.Empty(t, chain.calls)
}

func TestRejectionHidesSecrets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "user-a-secret", HttpOnly: true})
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	sink := &recordingSink{}
	chain := parser.New(sink)
	require.NoError(t, chain.Register(func(raw any, next parser.Next) parser.Result {
		return parser.Resolve(parser.Record{Type: "App.Test", Message: "denied", Detail: raw, ExtendedInfo: raw})
	}))

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/private?token=abc#frag", nil)
	require.NoError(t, err)
	req.SetBasicAuth("user", "hunter2")

	resp, err := NewClient(nil, chain).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	// the caller still gets the cookie
	assert.NotEmpty(t, resp.Cookies())

	require.Len(t, sink.published, 1)
	body, err := json.Marshal(sink.published[0])
	require.NoError(t, err)

	assert.NotContains(t, string(body), "user-a-secret")
	assert.NotContains(t, string(body), "Set-Cookie")
	assert.NotContains(t, string(body), "token=abc")
	assert.NotContains(t, string(body), "hunter2")
	assert.Contains(t, string(body), srv.URL+"/private")
}

func TestRedactURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain path", raw: "/api/things", want: "/api/things"},
		{name: "query", raw: "/api/things?token=abc", want: "/api/things"},
		{name: "absolute", raw: "https://user:pw@api.test/a?b=c#d", want: "https://api.test/a"},
		{name: "unparseable", raw: "http://[::1/a?token=abc", want: "http://[::1/a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactURL(tt.raw))
		})
	}
}

func TestRoundTripIgnoresChainFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	chain := &fakeChain{err: errors.New("classifier misbehaved")}
	resp, err := NewClient(nil, chain).Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Len(t, chain.calls, 1)
}

func TestDecodeData(t *testing.T) {
	tests := []struct {
		name string
		body string
		want any
	}{
		{name: "empty", body: "", want: nil},
		{name: "whitespace", body: "  \n", want: nil},
		{name: "json object", body: `{"code":"X"}`, want: map[string]any{"code": "X"}},
		{name: "json string", body: `"denied"`, want: "denied"},
		{name: "plain text", body: "denied\n", want: "denied"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeData([]byte(tt.body)))
		})
	}
}

func TestPeekBodyKeepsLargeBodies(t *testing.T) {
	large := strings.Repeat("a", maxBodyBytes+10)
	resp := &http.Response{Body: io.NopCloser(strings.NewReader(large))}

	data := peekBody(resp)
	assert.Len(t, data, maxBodyBytes)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Len(t, body, len(large))
}

func TestAsRejection(t *testing.T) {
	rej, ok := AsRejection(Rejection{Status: 401})
	require.True(t, ok)
	assert.Equal(t, 401, rej.Status)

	_, ok = AsRejection((*Rejection)(nil))
	assert.False(t, ok)

	_, ok = AsRejection("nope")
	assert.False(t, ok)
}
