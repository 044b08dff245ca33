package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds surfaced by prompt building, generation and output writing.
// Callers match them with errors.Is; the wrapped message carries the detail.
var (
	ErrFileAccess     = errors.New("reference file unreadable")
	ErrAuthentication = errors.New("authentication failed")
	ErrQuota          = errors.New("quota exceeded")
	ErrNetwork        = errors.New("network failure")
	ErrResponseFormat = errors.New("unexpected response format")
	ErrOutputWrite    = errors.New("output write failed")
)

// ValidationError aggregates every violation found while building a job so a
// user can fix all of them in one pass.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "invalid job"
	}
	return fmt.Sprintf("invalid job: %s", strings.Join(e.Violations, "; "))
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
