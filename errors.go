package rtshim

import (
	"errors"
	"fmt"
)

// Error codes.  Callers compare the Code field, not the message.
const (
	ErrAlloc     = "ERR_ALLOC"
	ErrIndex     = "ERR_INDEX"
	ErrCanon     = "ERR_CANON"
	ErrSchema    = "ERR_SCHEMA"
	ErrType      = "ERR_TYPE"
	ErrDupKey    = "ERR_DUP_KEY"
	ErrKeyOrder  = "ERR_KEY_ORDER"
	ErrLimitSize = "ERR_LIMIT_SIZE"
)

// Error is the error type for every failure this package reports.
//
// ERR_ALLOC is fatal: it is raised as a panic carrying an *Error, never
// returned.  All other codes are returned.
type Error struct {
	Code string
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Msg)
	}
	return e.Code
}

// Is matches any *Error carrying the same code, so
// errors.Is(err, &Error{Code: ErrIndex}) works through wrapping.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func newErr(code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// HasCode reports whether err is, or wraps, an *Error with the given code.
func HasCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Precedence order for reporting: index 0 wins.
var precedence = []string{
	ErrAlloc,
	ErrCanon,
	ErrSchema,
	ErrType,
	ErrIndex,
	ErrDupKey,
	ErrKeyOrder,
	ErrLimitSize,
}

var precIndex map[string]int

func init() {
	precIndex = make(map[string]int, len(precedence))
	for i, c := range precedence {
		precIndex[c] = i
	}
}

// ChooseReportedError returns the highest-precedence code from a set
// of detected violations.  codes must not be empty.
func ChooseReportedError(codes []string) string {
	best := codes[0]
	bestIdx, ok := precIndex[best]
	if !ok {
		bestIdx = len(precedence)
	}
	for _, c := range codes[1:] {
		if idx, ok := precIndex[c]; ok && idx < bestIdx {
			best = c
			bestIdx = idx
		}
	}
	return best
}
