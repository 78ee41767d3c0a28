package shared

import (
	"errors"
	"net/http"

	"github.com/kickzone/kickzone-admin/internal/apiclient"
)

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccessDenied indicates a signed-in operator without the required role.
	ErrAccessDenied = errors.New("access denied")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)

// GenericFailureMessage is shown when nothing more specific can be said.
const GenericFailureMessage = "Something went wrong. Please try again."

// UserSafeMessage returns text suitable for display. Backend messages on 4xx
// responses are passed through; everything else is replaced by a generic line.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, apiclient.ErrSessionExpired):
		return "Your session has expired. Please sign in again."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials."
	case errors.Is(err, ErrAccessDenied):
		return "Access denied. You must be a System Admin."
	}
	status := apiclient.StatusCode(err)
	if status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		if msg := apiclient.Message(err); msg != "" {
			return msg
		}
		if status == http.StatusNotFound {
			return "The requested record no longer exists."
		}
		if status == http.StatusForbidden {
			return "The server refused this action."
		}
	}
	return GenericFailureMessage
}
