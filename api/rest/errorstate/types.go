package errorstate

import (
	"context"
	"net/http"

	"codeberg.org/algorave/errorstack/api/rest/pagination"
	"codeberg.org/algorave/errorstack/internal/history"
	"codeberg.org/algorave/errorstack/internal/interceptor"
	"codeberg.org/algorave/errorstack/internal/parser"
)

// the error store as seen by the handlers
type State interface {
	Current() (parser.Record, bool)
	Clear()
}

// the parser chain as seen by the report handler
type Parser interface {
	Parse(raw any) (*parser.Record, error)
}

// the history store as seen by the handlers
type History interface {
	List(ctx context.Context, limit, offset int) ([]history.Entry, error)
	Count(ctx context.Context) (int, error)
}

// ReportRequest is a failure observed by a client, run through the parser
// chain as if the proxy had seen it. Either Status or Message must be set.
type ReportRequest struct {
	Status         int               `json:"status"`
	StatusText     string            `json:"statusText"`
	Data           any               `json:"data"`
	Method         string            `json:"method"`
	URL            string            `json:"url"`
	RequestHeaders map[string]string `json:"requestHeaders"`

	// plain error message for failures that are not HTTP responses
	Message string `json:"message"`
}

// carries the outcome of a report, nil when it was suppressed
type StateResponse struct {
	Error *parser.Record `json:"error"`
}

type HistoryResponse struct {
	Events     []history.Entry `json:"events"`
	Pagination pagination.Meta `json:"pagination"`
}

// returns the raw error the chain should see for the report
func (r ReportRequest) raw() any {
	if r.Status == 0 {
		return r.Message
	}

	header := make(http.Header, len(r.RequestHeaders))
	for k, v := range r.RequestHeaders {
		header.Set(k, v)
	}

	return &interceptor.Rejection{
		Status:     r.Status,
		StatusText: r.StatusText,
		Data:       r.Data,
		Config: interceptor.RequestConfig{
			Method: r.Method,
			URL:    interceptor.RedactURL(r.URL),
			Header: header,
		},
	}
}
