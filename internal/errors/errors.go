package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Draft error code.
type ErrorCode string

const (
	ErrMissingArgument ErrorCode = "MISSING_ARGUMENT" // 400
	ErrInvalidSlug     ErrorCode = "INVALID_SLUG"     // 400
	ErrUnknownCategory ErrorCode = "UNKNOWN_CATEGORY" // 400
	ErrNotARepository  ErrorCode = "NOT_A_REPOSITORY" // 404
	ErrSyncFailed      ErrorCode = "SYNC_FAILED"      // 502
	ErrBranchFailed    ErrorCode = "BRANCH_FAILED"    // 502
	ErrCommandFailed   ErrorCode = "COMMAND_FAILED"   // 502
	ErrInternal        ErrorCode = "INTERNAL"         // 500
)

// DraftError represents a structured error with code, status, and details.
type DraftError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DraftError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause when one was recorded.
func (e *DraftError) Unwrap() error {
	if cause, ok := e.Details["cause"].(error); ok {
		return cause
	}
	return nil
}

// NewMissingArgument creates a 400 error for a required parameter that was not supplied.
func NewMissingArgument(param string) *DraftError {
	return &DraftError{
		Code:    ErrMissingArgument,
		Status:  400,
		Message: fmt.Sprintf("required argument %q is missing", param),
		Details: map[string]any{"param": param},
	}
}

// NewInvalidSlug creates a 400 error for a slug that is not filesystem/URL safe.
func NewInvalidSlug(slug, reason string) *DraftError {
	return &DraftError{
		Code:    ErrInvalidSlug,
		Status:  400,
		Message: fmt.Sprintf("invalid slug %q: %s", slug, reason),
		Details: map[string]any{"slug": slug, "reason": reason},
	}
}

// NewUnknownCategory creates a 400 error for a category outside the fixed set.
func NewUnknownCategory(name string, known []string) *DraftError {
	return &DraftError{
		Code:    ErrUnknownCategory,
		Status:  400,
		Message: fmt.Sprintf("unknown category %q (known: %v)", name, known),
		Details: map[string]any{"category": name, "known": known},
	}
}

// NewNotARepository creates a 404 error when no git repository is reachable from path.
func NewNotARepository(path string, err error) *DraftError {
	return &DraftError{
		Code:    ErrNotARepository,
		Status:  404,
		Message: fmt.Sprintf("no git repository found at %s: %v", path, err),
		Details: map[string]any{"path": path, "cause": err},
	}
}

// NewSyncFailed creates a 502 error for a failed checkout or pull of the default branch.
func NewSyncFailed(branch string, err error) *DraftError {
	return &DraftError{
		Code:    ErrSyncFailed,
		Status:  502,
		Message: fmt.Sprintf("failed to sync default branch %q: %v", branch, err),
		Details: map[string]any{"branch": branch, "cause": err},
	}
}

// NewBranchFailed creates a 502 error for a failed branch creation.
func NewBranchFailed(branch string, err error) *DraftError {
	return &DraftError{
		Code:    ErrBranchFailed,
		Status:  502,
		Message: fmt.Sprintf("failed to create branch %q: %v", branch, err),
		Details: map[string]any{"branch": branch, "cause": err},
	}
}

// NewCommandFailed creates a 502 error for an external command that returned non-zero.
// exitStatus carries the command's own exit code so callers can propagate it.
func NewCommandFailed(command string, exitStatus int, err error) *DraftError {
	return &DraftError{
		Code:    ErrCommandFailed,
		Status:  502,
		Message: fmt.Sprintf("command %q failed: %v", command, err),
		Details: map[string]any{"command": command, "exit_status": exitStatus, "cause": err},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *DraftError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &DraftError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is (or wraps) a DraftError with the given code.
func Is(err error, code ErrorCode) bool {
	var dErr *DraftError
	if stderrors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// ExitStatus returns the exit code a CLI run should terminate with for err.
// Command failures propagate the underlying tool's exit status; everything
// else maps to 1.
func ExitStatus(err error) int {
	var dErr *DraftError
	if stderrors.As(err, &dErr) {
		if status, ok := dErr.Details["exit_status"].(int); ok && status > 0 {
			return status
		}
	}
	return 1
}
