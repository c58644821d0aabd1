package llm

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the two ways an extraction call can fail.
type ErrorKind int

const (
	// ServiceFailure: the extractor service was unreachable or returned a
	// transport-level error.
	ServiceFailure ErrorKind = iota + 1
	// MalformedResponse: the service responded but the content is not
	// parseable into the expected structured shape.
	MalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case ServiceFailure:
		return "service_failure"
	case MalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// ExtractionError is the adapter's typed failure. Raw holds the response
// text for malformed responses so it can be retained in the failure log.
type ExtractionError struct {
	Kind   ErrorKind
	Detail string
	Raw    []byte
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction %s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("extraction %s: %s", e.Kind, e.Detail)
}

func (e *ExtractionError) Unwrap() error { return e.Cause }

// NewServiceFailure wraps a transport/service error.
func NewServiceFailure(detail string, cause error) *ExtractionError {
	return &ExtractionError{Kind: ServiceFailure, Detail: detail, Cause: cause}
}

// NewMalformedResponse wraps an unparseable response, keeping the raw text.
func NewMalformedResponse(detail string, raw []byte, cause error) *ExtractionError {
	return &ExtractionError{Kind: MalformedResponse, Detail: detail, Raw: raw, Cause: cause}
}

// AsExtractionError unwraps err into an *ExtractionError if one is present.
func AsExtractionError(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
