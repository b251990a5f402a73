package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a record is absent or owned by another user.
// The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("record not found")

// FieldViolations maps a field name to its validation messages.
type FieldViolations map[string][]string

func (v FieldViolations) add(field, msg string) {
	v[field] = append(v[field], msg)
}

// ValidationError carries the complete set of field violations for one
// write, so a client can surface every problem in a single round trip.
type ValidationError struct {
	Violations FieldViolations
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Violations))
	for f := range e.Violations {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// MalformedFieldError means the input could not even be coerced to the
// expected primitive type (e.g. a non-numeric category id).
type MalformedFieldError struct {
	Field string
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed field: %s", e.Field)
}

// StorageError wraps a failure of the underlying store. It is logged with
// full context server-side and surfaced to clients as an opaque failure.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
