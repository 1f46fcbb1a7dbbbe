package client

import "errors"

var (
	// ErrMissingBaseURL is returned when no server address is configured
	ErrMissingBaseURL = errors.New("server base URL is required")
	// ErrInvalidBaseURL is returned when the server address is not an absolute URL
	ErrInvalidBaseURL = errors.New("server base URL must be absolute")
	// ErrSubmitFailed is returned when the submission request cannot be made
	ErrSubmitFailed = errors.New("form submission failed")
	// ErrUnexpectedStatus is returned when the server rejects the submission
	ErrUnexpectedStatus = errors.New("unexpected submission response status")
)
