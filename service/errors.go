package service

import (
	"fmt"

	"github.com/crosti/buyerform/model"
)

var (
	// ErrPDFNotSupported is returned for .pdf uploads
	ErrPDFNotSupported = fmt.Errorf("%w: PDF files not yet supported", model.ErrUnsupportedFormat)
	// ErrUnsupportedFileType is returned for uploads that are neither csv nor xlsx
	ErrUnsupportedFileType = fmt.Errorf("%w: only csv and xlsx are accepted", model.ErrUnsupportedFormat)
	// ErrRequiredFieldsBlank is returned when a submission skips required answers
	ErrRequiredFieldsBlank = fmt.Errorf("%w: required fields are blank", model.ErrMalformedRequest)
	// ErrNoRecipient is returned when a submission service has nowhere to send
	ErrNoRecipient = fmt.Errorf("%w: no sender or recipient address", model.ErrConfiguration)
)
