package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an error by who has to act on it
type Kind string

const (
	KindValidation Kind = "validation"
	KindNotFound   Kind = "not_found"
	KindUpstream   Kind = "upstream"
	KindConfig     Kind = "config"
)

// Error is the single error type surfaced by the adapter
// Op names the operation (e.g. "get_departures"), Status carries the upstream HTTP status when there was one
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, msg)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed caller input
func Validation(op, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports that upstream has no such entity
func NotFound(op, format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Upstream wraps a network failure, non-2xx response, timeout or undecodable body
func Upstream(op string, status int, message string, err error) *Error {
	return &Error{Kind: KindUpstream, Op: op, Status: status, Message: message, Err: err}
}

// Config reports missing or invalid startup configuration
func Config(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Op: "config", Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsUpstream(err error) bool   { return KindOf(err) == KindUpstream }
func IsConfig(err error) bool     { return KindOf(err) == KindConfig }

// WithOp returns a copy of err tagged with op if it is an *Error without one
func WithOp(err error, op string) error {
	var e *Error
	if !errors.As(err, &e) || e.Op != "" {
		return err
	}
	c := *e
	c.Op = op
	return &c
}
