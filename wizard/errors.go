package wizard

import "errors"

var (
	// ErrIncomplete is returned when the current step has blank required fields
	ErrIncomplete = errors.New("required fields are blank")
	// ErrInvalidTransition is returned for a move the current step does not allow
	ErrInvalidTransition = errors.New("transition not allowed from this step")
	// ErrSubmitInFlight is returned when a submission is already running
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrNotMultiSelect is returned when toggling a single-value field
	ErrNotMultiSelect = errors.New("field is not multi-select")
)

// Messages surfaced to the user.
const (
	MessageIncomplete   = "Please fill in all required fields."
	MessageSubmitFailed = "Failed to submit form. Please try again."
)
