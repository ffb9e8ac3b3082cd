package parser

// Record is the normalized error shape delivered to the sink.
type Record struct {
	// machine-readable classification tag, e.g. "App.Http.Auth.RequiredError"
	Type string `json:"type"`

	// short human label for dialogs
	Title string `json:"title,omitempty"`

	Message string `json:"message"`

	// raw underlying error or context, retained for diagnostics
	Detail any `json:"detail,omitempty"`

	// secondary diagnostic payload
	ExtendedInfo any `json:"extendedInfo,omitempty"`

	// per-field validation failures
	Errors []FieldError `json:"errors"`

	// set by the chain when the record is delivered; classifiers leave it alone
	Parsed bool `json:"parsed"`
}

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Sink receives the terminal outcome of a chain execution.
type Sink interface {
	// stores rec as the current error and notifies observers
	Publish(rec Record)

	// removes the current error
	Clear()
}

// Next hands the (possibly modified) error to the following classifier.
// It returns the deferred Result so classifiers can write `return next(err)`.
type Next func(err any) Result

// Classifier inspects a raw error and ends with exactly one outcome: a
// terminal Result, or the Result of calling next.
type Classifier func(raw any, next Next) Result

type outcome int

const (
	outcomeDeferred outcome = iota
	outcomeResolved
	outcomeSuppressed
)

func (o outcome) String() string {
	switch o {
	case outcomeResolved:
		return "resolved"
	case outcomeSuppressed:
		return "suppressed"
	default:
		return "deferred"
	}
}

// Result is the outcome of one classifier call. The zero value means the
// classifier contributed nothing (it deferred via Next).
type Result struct {
	outcome outcome
	record  Record
}

// resolves the error to rec and ends the chain
func Resolve(rec Record) Result {
	return Result{outcome: outcomeResolved, record: rec}
}

// ends the chain and clears the sink
func Suppress() Result {
	return Result{outcome: outcomeSuppressed}
}

func (r Result) terminal() bool {
	return r.outcome != outcomeDeferred
}

// reports whether the result resolves to a record
func (r Result) Resolved() bool {
	return r.outcome == outcomeResolved
}

// reports whether the result suppresses the error
func (r Result) Suppressed() bool {
	return r.outcome == outcomeSuppressed
}

// returns the resolved record (zero Record unless Resolved)
func (r Result) Record() Record {
	return r.record
}
