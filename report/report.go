// Package report records the progress and outcome of root-finding runs.
//
// A Sink receives, for each batch line, one Begin call, zero or more
// Iteration calls, and one End call. Sinks write fixed-width text tables,
// SQLite rows, or a styled console report; Multi fans out to several.
package report

import (
	"errors"

	"github.com/zephyrtronium/rootfind/solve"
)

// Entry identifies the batch line a record belongs to.
type Entry struct {
	// Line is the 1-based line number in the batch input.
	Line int
	// Text is the line as read.
	Text string
	// Method is the method named by the line. It is empty if the line could
	// not be parsed.
	Method solve.Method
	// Expr is the preprocessed source of the function whose root is sought.
	Expr string
	// Params describes the method's numeric parameters.
	Params string
}

// Sink receives records. Methods are called from a single goroutine per
// line, but the file-backed sinks are safe for concurrent use.
type Sink interface {
	Begin(e Entry) error
	Iteration(e Entry, it solve.Iteration) error
	// End reports the outcome of a line. If err is not nil, res is the zero
	// Result.
	End(e Entry, res solve.Result, err error) error
	Close() error
}

// Status describes the outcome of a line in one word.
func Status(res solve.Result, err error) string {
	switch {
	case err != nil:
		return "failed"
	case res.Converged:
		return "converged"
	default:
		return "not converged"
	}
}

// Multi returns a Sink that forwards every call to each of sinks in order.
// Errors from all sinks are joined.
func Multi(sinks ...Sink) Sink {
	return multi(sinks)
}

type multi []Sink

func (m multi) Begin(e Entry) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Begin(e))
	}
	return errors.Join(errs...)
}

func (m multi) Iteration(e Entry, it solve.Iteration) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Iteration(e, it))
	}
	return errors.Join(errs...)
}

func (m multi) End(e Entry, res solve.Result, err error) error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.End(e, res, err))
	}
	return errors.Join(errs...)
}

func (m multi) Close() error {
	var errs []error
	for _, s := range m {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Discard is a Sink that does nothing.
var Discard Sink = discard{}

type discard struct{}

func (discard) Begin(Entry) error                      { return nil }
func (discard) Iteration(Entry, solve.Iteration) error { return nil }
func (discard) End(Entry, solve.Result, error) error   { return nil }
func (discard) Close() error                           { return nil }
