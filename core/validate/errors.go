package validate

import (
	"errors"
	"strings"
)

// ErrNoJSONFound is returned when the extractor produced no candidate
// substrings at all. It is distinct from validation failure: there was
// nothing to validate.
var ErrNoJSONFound = errors.New("validate: no JSON output found")

// AggregateError carries every candidate's failure, in candidate order, when
// none of them validated. Callers can use errors.Is/errors.As through
// Unwrap to inspect individual causes.
type AggregateError struct {
	Causes []error
}

func (e *AggregateError) Error() string {
	messages := make([]string, len(e.Causes))
	for i, cause := range e.Causes {
		messages[i] = cause.Error()
	}
	return strings.Join(messages, ", ")
}

// Unwrap exposes the ordered underlying causes.
func (e *AggregateError) Unwrap() []error {
	return e.Causes
}
