package solver

import "fmt"

// TranslationError reports an expression the translator could not lower to a
// solver term: a sort mismatch, an unsupported literal, or a constructor
// over an undeclared data type.
type TranslationError struct {
	Op      string // operation name when the failure is tied to one
	Message string
}

func (e *TranslationError) Error() string { return e.Message }

// Translationf builds a TranslationError with a formatted message.
func Translationf(op, format string, args ...interface{}) *TranslationError {
	return &TranslationError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// UnavailableError reports a backend that failed to initialize, typically a
// missing native solver library.
type UnavailableError struct {
	Backend string
	Cause   error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("solver backend %s unavailable: %v", e.Backend, e.Cause)
}

func (e *UnavailableError) Unwrap() error { return e.Cause }
