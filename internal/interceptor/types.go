package interceptor

import (
	"net/http"

	apperrors "codeberg.org/algorave/errorstack/internal/errors"
)

// status used for round trips that never produced a response
const StatusConnectionFailed = -1

// maximum number of body bytes decoded into Rejection.Data
const maxBodyBytes = 1 << 20

// Rejection is the raw error handed to the parser chain for a failed request.
type Rejection struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText,omitempty"`

	// decoded JSON body, or the body text when it is not JSON
	Data any `json:"data,omitempty"`

	Config RequestConfig `json:"config"`

	// response headers; never serialized
	Headers http.Header `json:"-"`

	// transport failure category, set when Status is StatusConnectionFailed
	Category apperrors.Category `json:"category,omitempty"`

	Err error `json:"-"`
}

// RequestConfig describes the request that failed. URL never carries a query
// string, fragment or user info.
type RequestConfig struct {
	Method string      `json:"method"`
	URL    string      `json:"url"`
	Header http.Header `json:"-"`
}

// Executor runs a raw error through the parser chain.
type Executor interface {
	Execute(raw any) error
}

// returns the rejection carried by raw, accepting both value and pointer forms
func AsRejection(raw any) (*Rejection, bool) {
	switch v := raw.(type) {
	case *Rejection:
		return v, v != nil
	case Rejection:
		return &v, true
	default:
		return nil, false
	}
}
