package shopkit

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
)

const (
	// TextCodeAuthRequired means a request needed a token and none was available.
	TextCodeAuthRequired = "shopkit_auth_required"
	// TextCodeAuthRejected means the backend refused the presented token.
	TextCodeAuthRejected = "shopkit_auth_rejected"
	// TextCodeNetworkFailure is a transport-level failure with no response.
	TextCodeNetworkFailure = "shopkit_network_failure"
	// TextCodeServerError is a received non-success response.
	TextCodeServerError = "shopkit_server_error"
	// TextCodeFetchCancelled is an intentionally aborted operation.
	TextCodeFetchCancelled = "shopkit_fetch_cancelled"
	// TextCodeInvalidInput is malformed local input.
	TextCodeInvalidInput = "shopkit_invalid_input"
)

// ErrNoToken is returned when a request requires auth and no token exists.
// The transport is never touched in that case.
var ErrNoToken = errors.New("no bearer token available", errors.CategoryAuth).
	WithTextCode(TextCodeAuthRequired).
	WithCode(errors.CodeUnauthorized)

// ErrSessionCorrupt marks a persisted session payload that failed to parse.
// SessionStore absorbs it and reports the session as absent.
var ErrSessionCorrupt = errors.New("persisted session is corrupt", errors.CategoryOperation).
	WithTextCode(TextCodeInvalidInput)

// NewAuthRejectedError wraps a 401/403 response from the backend or provider.
func NewAuthRejectedError(status int) *errors.Error {
	return errors.New(fmt.Sprintf("authentication rejected with status %d", status), errors.CategoryAuth).
		WithTextCode(TextCodeAuthRejected).
		WithCode(errors.CodeUnauthorized).
		WithMetadata(map[string]any{"status": status})
}

// NewNetworkError wraps a transport failure (no response received).
func NewNetworkError(err error) *errors.Error {
	return errors.Wrap(err, errors.CategoryOperation, "transport failure").
		WithTextCode(TextCodeNetworkFailure)
}

// NewServerError wraps a received non-2xx response, keeping status and body
// so the initiating UI action can present it.
func NewServerError(status int, body []byte) *errors.Error {
	return errors.New(fmt.Sprintf("server responded with status %d", status), errors.CategoryOperation).
		WithTextCode(TextCodeServerError).
		WithMetadata(map[string]any{
			"status": status,
			"body":   string(body),
		})
}

// NewCancelledError wraps an intentional abort. The source error is kept so
// errors.Is(err, context.Canceled) still holds for callers that check it.
func NewCancelledError(err error) *errors.Error {
	if err == nil {
		err = context.Canceled
	}
	return errors.Wrap(err, errors.CategoryOperation, "fetch cancelled").
		WithTextCode(TextCodeFetchCancelled)
}

// NewValidationError reports malformed local input before any network call.
func NewValidationError(err error, message string) *errors.Error {
	if err == nil {
		return errors.New(message, errors.CategoryValidation).
			WithTextCode(TextCodeInvalidInput).
			WithCode(errors.CodeBadRequest)
	}
	return errors.Wrap(err, errors.CategoryValidation, message).
		WithTextCode(TextCodeInvalidInput).
		WithCode(errors.CodeBadRequest)
}

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}

// IsAuthError reports missing or rejected authentication.
func IsAuthError(err error) bool {
	if hasTextCode(err, TextCodeAuthRequired) || hasTextCode(err, TextCodeAuthRejected) {
		return true
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Category == errors.CategoryAuth || richErr.Category == errors.CategoryAuthz
	}
	return false
}

// IsNetworkError reports a transport-level failure.
func IsNetworkError(err error) bool {
	return hasTextCode(err, TextCodeNetworkFailure)
}

// IsServerError reports a non-success response with a body.
func IsServerError(err error) bool {
	return hasTextCode(err, TextCodeServerError)
}

// IsCancelledError reports an intentional abort. Cancellation is expected,
// not exceptional; callers must never surface it to the user.
func IsCancelledError(err error) bool {
	return hasTextCode(err, TextCodeFetchCancelled) || errors.Is(err, context.Canceled)
}

// IsValidationError reports malformed local input.
func IsValidationError(err error) bool {
	if hasTextCode(err, TextCodeInvalidInput) {
		return true
	}
	var richErr *errors.Error
	if errors.As(err, &richErr) {
		return richErr.Category == errors.CategoryValidation
	}
	return false
}
