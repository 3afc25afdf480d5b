package forge

import "fmt"

// DerivationError is returned when every send attempt failed to produce a
// value that validates. It carries the final prompt text, feedback sections
// included, so callers can inspect what the model was last asked.
type DerivationError struct {
	// Prompt is the prompt text of the final attempt.
	Prompt string
	// Attempts is the number of send attempts made.
	Attempts int
	// Err is the failure of the final attempt.
	Err error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("forge: no valid result after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *DerivationError) Unwrap() error {
	return e.Err
}
