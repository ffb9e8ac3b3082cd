package parser

import (
	"slices"
	"sync"

	apperrors "codeberg.org/algorave/errorstack/internal/errors"
	"codeberg.org/algorave/errorstack/internal/logger"
	"codeberg.org/algorave/errorstack/internal/metrics"
)

// counts every contract violation, whichever caller ends up holding the error
var countLogicError = apperrors.WithReporter(func(*apperrors.AppError, ...any) {
	metrics.LogicErrors.Inc()
})

// Chain runs raw errors through an ordered list of classifiers. The Default
// classifier is installed by New and always stays last.
type Chain struct {
	mu          sync.RWMutex
	classifiers []Classifier
	sink        Sink
}

// creates a chain delivering to sink, with only the Default classifier installed
func New(sink Sink) *Chain {
	c := &Chain{sink: sink}
	c.register(Default, true) //nolint:errcheck // Default is never nil
	return c
}

// adds a classifier just before the Default classifier. Classifiers run in
// registration order.
func (c *Chain) Register(classifier Classifier) error {
	return c.register(classifier, false)
}

func (c *Chain) register(classifier Classifier, atEnd bool) error {
	if classifier == nil {
		return apperrors.InvalidArgument("classifier must be a function", nil)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// position is derived on every call so late registrations still land before the default
	position := len(c.classifiers) - 1
	if atEnd || position < 0 {
		c.classifiers = append(c.classifiers, classifier)
		return nil
	}

	c.classifiers = slices.Insert(c.classifiers, position, classifier)
	return nil
}

// returns the number of classifiers, including the Default classifier
func (c *Chain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.classifiers)
}

func (c *Chain) snapshot() []Classifier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.classifiers)
}

// Execute runs raw through the classifiers in order and delivers exactly one
// terminal outcome to the sink. A classifier that breaks the contract (resolves
// and continues, continues twice, or does neither) aborts the run with a logic
// error and nothing is delivered.
func (c *Chain) Execute(raw any) error {
	_, err := c.Parse(raw)
	return err
}

// runs raw like Execute and also returns the record this call delivered, or
// nil when the error was suppressed
func (c *Chain) Parse(raw any) (*Record, error) {
	current := raw

	for index, classifier := range c.snapshot() {
		t := &turn{index: index, original: raw}
		result := classifier(current, t.next)

		deferred, next, err := t.finish(result)
		if err != nil {
			return nil, err
		}

		if deferred {
			current = next
			continue
		}

		return c.deliver(result, index), nil
	}

	// unreachable while Default is installed
	return nil, apperrors.LogicError("error parser chain ended without a terminal outcome", raw, nil, countLogicError)
}

func (c *Chain) deliver(result Result, index int) *Record {
	if result.Suppressed() {
		logger.Debug("error suppressed by parser chain", "classifier", index)
		c.sink.Clear()
		return nil
	}

	rec := result.Record()
	rec.Parsed = true

	// consumers always get a list
	if rec.Errors == nil {
		rec.Errors = []FieldError{}
	}

	logger.Debug("error parsed",
		"classifier", index,
		"type", rec.Type,
	)

	c.sink.Publish(rec)
	return &rec
}

// tracks one classifier call so that misuse of next can be detected
type turn struct {
	mu        sync.Mutex
	index     int
	original  any
	returned  bool
	result    Result
	continued bool
	nextErr   any
	repeated  bool
	repeatErr any
}

func (t *turn) next(err any) Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.returned {
		// classifier kept next and called it after its turn was over
		message := "next() called for error parser chain after the parser returned"
		if t.result.terminal() {
			message = "next() called for error parser chain but parsed result already returned"
		}

		panic(apperrors.LogicError(message, t.original, err,
			apperrors.WithLogArgs("classifier", t.index, "outcome", t.result.outcome.String()),
			countLogicError,
		))
	}

	if t.continued {
		t.repeated = true
		t.repeatErr = err
		return Result{}
	}

	t.continued = true
	t.nextErr = err
	return Result{}
}

// closes the turn and reports whether the chain should advance, and with what
func (t *turn) finish(result Result) (bool, any, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.returned = true
	t.result = result

	logArgs := apperrors.WithLogArgs("classifier", t.index, "outcome", result.outcome.String())

	switch {
	case t.repeated:
		return false, nil, apperrors.LogicError("next() called more than once by the same error parser",
			t.original, t.repeatErr, logArgs, countLogicError)

	case result.terminal() && t.continued:
		return false, nil, apperrors.LogicError("next() called for error parser chain but parsed result already returned",
			t.original, t.nextErr, logArgs, countLogicError)

	case result.terminal():
		return false, nil, nil

	case t.continued:
		return true, t.nextErr, nil

	default:
		return false, nil, apperrors.LogicError("error parser neither returned a result nor called next()",
			t.original, nil, logArgs, countLogicError)
	}
}
