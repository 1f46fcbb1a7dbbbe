package model

import "errors"

var (
	// ErrMalformedRequest is returned for missing or undecodable input
	ErrMalformedRequest = errors.New("malformed request")
	// ErrEncoding is returned when a workbook cannot be built
	ErrEncoding = errors.New("spreadsheet encoding failed")
	// ErrDelivery is returned when the mail transport fails or times out
	ErrDelivery = errors.New("email delivery failed")
	// ErrParse is returned when an upload cannot be read
	ErrParse = errors.New("unreadable upload")
	// ErrUnsupportedFormat is returned for upload types that are not handled
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrConfiguration is returned when required settings are absent
	ErrConfiguration = errors.New("configuration error")
)

// Kind names the taxonomy member err belongs to, for log attributes.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedRequest):
		return "malformed_request"
	case errors.Is(err, ErrEncoding):
		return "encoding_error"
	case errors.Is(err, ErrDelivery):
		return "delivery_error"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrUnsupportedFormat):
		return "unsupported_format"
	case errors.Is(err, ErrConfiguration):
		return "configuration_error"
	default:
		return "internal"
	}
}
