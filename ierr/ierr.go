// Package ierr holds the error taxonomy shared across the wrasse grammar
// compiler. Every stage of the build pipeline reports failures as one of
// the sentinel errors below, wrapped in an Error that carries the
// human-readable detail. Callers can test for a specific failure kind with
// errors.Is(err, ierr.ErrNullableSymbols) without caring about the message
// text.
package ierr

import "errors"

var (
	ErrIndistinguishableSymbols = errors.New("two or more terminals match the same input with no way to prioritize between them")
	ErrNullableSymbols          = errors.New("a terminal's regular expression can match the empty string")
	ErrNoSymbolsSpecified       = errors.New("no terminals or nonterminals were given to build a grammar from")
	ErrEmptyNonterminals        = errors.New("a reachable nonterminal has no productions")
	ErrDuplicateProductions     = errors.New("two productions have the same head and handle")
	ErrLALRConflict             = errors.New("the action table has an unresolved shift/reduce or reduce/reduce conflict")
	ErrRegexParse               = errors.New("a regular expression source could not be parsed")
	ErrCancelled                = errors.New("the build was cancelled")
)

// Error is a typed error that wraps one or more cause errors while
// providing its own descriptive message. It is compatible with errors.Is:
// calling errors.Is on an Error with any of its causes as the target
// returns true.
type Error struct {
	msg   string
	cause []error
}

// New creates an Error with the given message and, optionally, one or more
// causes it should be considered equivalent to under errors.Is.
func New(msg string, causes ...error) Error {
	e := Error{msg: msg}
	if len(causes) > 0 {
		e.cause = make([]error, len(causes))
		copy(e.cause, causes)
	}
	return e
}

// Error returns the message defined for e, followed by the message of its
// first cause, if any.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns the causes of e, for use by errors.Is and errors.As.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}
