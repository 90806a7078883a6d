package ml

import (
	"errors"
	"fmt"
)

// ErrModelNotLoaded is returned when a prediction is attempted before the
// model bundle has been successfully loaded.
var ErrModelNotLoaded = errors.New("fuel prediction model not loaded")

// ValidationError marks failures caused by malformed or mismatched input
// data, as opposed to internal faults. The HTTP layer maps these to 400.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
