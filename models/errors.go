package models

import "fmt"

// Error codes used in logs and internal error handling.
const (
	ErrCodeTimeout      = "PROBE_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeLoginTimeout = "LOGIN_TIMEOUT"
	ErrCodeInternal     = "INTERNAL_ERROR"
)

// ProbeError is the internal error type carrying an error code.
// It implements the error interface and supports error wrapping via Unwrap.
type ProbeError struct {
	Code    string
	Message string
	Err     error // wrapped original error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// NewProbeError creates a new ProbeError.
func NewProbeError(code, message string, err error) *ProbeError {
	return &ProbeError{Code: code, Message: message, Err: err}
}
