package errs

import "fmt"

// Kind categorizes boundary errors for HTTP status mapping. Pipeline
// failures (unreachable pages, broken links, parse problems) are not
// errors in this service; they surface as values inside the report.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates the request was malformed (HTTP 400).
	InvalidInput
	// Timeout indicates the analysis deadline was exceeded (HTTP 504).
	Timeout
)

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}
