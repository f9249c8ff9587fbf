package signups

import "errors"

// ValidationError is returned when a submission is rejected before any state changes.
// Message is the text shown next to the form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrNoDaySelected = &ValidationError{Field: "days", Message: "Please select at least one day"}
	ErrNameRequired  = &ValidationError{Field: "name", Message: "Please enter your name to sign up"}

	ErrUnknownDay        = errors.New("unknown day")
	ErrInvalidTransition = errors.New("invalid view transition")
)
