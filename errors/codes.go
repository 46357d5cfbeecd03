package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessCode is used for results that carry no error.
	SuccessCode = 0

	// All errors that do not provide a code are clubbed under an internal
	// error code and a generic message instead of the detailed error
	// string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the code and the log message that should be exposed to the
// client for the given error. Any error that does not provide a code is
// categorized as internal and its message is hidden unless debug is set.
func Info(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}

	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalCode, code == ErrPanic.code:
		return code, internalLog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode unwraps given error until a coder is found and returns its code.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return internalCode
		}
	}
}

// Redact replaces all errors that were not created from a registered error
// with a generic internal error. It is a no-op in debug mode.
func Redact(err error, debug bool) error {
	if debug || isNilErr(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
