package errors

import "log/slog"

// represents a standardized error response
type ErrorResponse struct {
	Error   string `json:"error"`             // error code (e.g., "too_many_requests", "not_found")
	Message string `json:"message"`           // user-friendly message
	Details string `json:"details,omitempty"` // optional details (sanitized in production)
}

// AppError is the error value used for internal signaling (logic errors,
// invalid arguments). Field defaults are applied by New.
type AppError struct {
	Title        string `json:"title"`
	Type         string `json:"type"`
	Message      string `json:"message"`
	Code         string `json:"code,omitempty"`
	Detail       any    `json:"detail,omitempty"`
	ExtendedInfo any    `json:"extendedInfo,omitempty"`

	// sentinel or underlying error, exposed through Unwrap
	Cause error `json:"-"`
}

// controls how New logs and reports an AppError
type Options struct {
	LogLevel slog.Level
	LogArgs  []any
	Reporter func(err *AppError, args ...any)
}

type Option func(*Options)

// error categories for classification
type Category string

const (
	CategoryNetwork  Category = "network"
	CategoryTimeout  Category = "timeout"
	CategoryCanceled Category = "canceled"
	CategoryTLS      Category = "tls"
	CategoryUnknown  Category = "unknown"
)
