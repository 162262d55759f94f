package types

import (
	"errors"
	"fmt"
)

// ErrNotFound reports a record that is absent or owned by someone else. The
// two cases are deliberately indistinguishable so that existence is not
// leaked to non-owners.
var ErrNotFound = errors.New("record not found")

// ValidationError reports client input rejected before any mutation (blank
// text, wrong embedding dimension).
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
