package errors

import (
	"errors"
	"fmt"
	"log/slog"

	"codeberg.org/algorave/errorstack/internal/logger"
)

// sentinels for errors.Is checks against AppError causes
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrLogic           = errors.New("logic error")
)

const (
	defaultTitle   = "Error"
	defaultType    = "App"
	defaultMessage = "An error occurred."

	TypeLogic           = "App.LogicError"
	TypeInvalidArgument = "App.InvalidArgumentError"
)

func (e *AppError) Error() string {
	if e == nil {
		return "<nil>"
	}

	if e.Code != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Type, e.Code, e.Message)
	}

	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// sets the level New logs the error at (default: error)
func WithLogLevel(level slog.Level) Option {
	return func(o *Options) {
		o.LogLevel = level
	}
}

// appends extra key/value pairs to the log line
func WithLogArgs(args ...any) Option {
	return func(o *Options) {
		o.LogArgs = append(o.LogArgs, args...)
	}
}

// registers an extra reporter (e.g. a third party error tracker)
func WithReporter(reporter func(err *AppError, args ...any)) Option {
	return func(o *Options) {
		o.Reporter = reporter
	}
}

// creates an application error with defaults applied, logs it and hands it to
// the optional reporter
func New(props AppError, opts ...Option) *AppError {
	options := Options{LogLevel: slog.LevelError}
	for _, opt := range opts {
		opt(&options)
	}

	err := props
	if err.Title == "" {
		err.Title = defaultTitle
	}

	if err.Type == "" {
		err.Type = defaultType
	}

	if err.Message == "" {
		err.Message = defaultMessage
	}

	args := append([]any{
		"type", err.Type,
		"title", err.Title,
	}, options.LogArgs...)

	if err.Code != "" {
		args = append(args, "code", err.Code)
	}

	if err.Cause != nil {
		args = append(args, "error", err.Cause)
	}

	logger.Log(options.LogLevel, err.Message, args...)

	if options.Reporter != nil {
		options.Reporter(&err, options.LogArgs...)
	}

	return &err
}

// builds the error raised when a pipeline stage breaks its contract
func LogicError(message string, detail, extendedInfo any, opts ...Option) *AppError {
	return New(AppError{
		Type:         TypeLogic,
		Message:      message,
		Detail:       detail,
		ExtendedInfo: extendedInfo,
		Cause:        ErrLogic,
	}, opts...)
}

// builds the error returned for rejected arguments; logged at warn level
func InvalidArgument(message string, detail any) *AppError {
	return New(AppError{
		Type:    TypeInvalidArgument,
		Message: message,
		Detail:  detail,
		Cause:   ErrInvalidArgument,
	}, WithLogLevel(slog.LevelWarn))
}

// returns the AppError in err's chain, if any
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}

	return nil, false
}
