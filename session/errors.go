package session

import (
	"errors"

	"github.com/videoflix/videoflix-client/api"
	"github.com/videoflix/videoflix-client/internal/utils"
)

// GenericErrorMessage is the fallback shown when the backend supplies no
// usable message.
const GenericErrorMessage = "An error has occurred"

// AuthError means the backend rejected credentials or a token. Message is a
// single human-readable string synthesized from the response payload;
// Payload keeps the decoded body for flows that extract field-level
// messages themselves.
type AuthError struct {
	Message string
	Payload map[string]any
}

func (e *AuthError) Error() string {
	return e.Message
}

// NetworkError means the transport failed or the backend was unreachable.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError is a client-side form-rule violation. It never reaches
// the network and is shown inline at the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// SessionExpiredError means the background token refresh failed and the
// session was torn down, same terminal effect as an explicit logout.
type SessionExpiredError struct {
	Cause error
}

func (e *SessionExpiredError) Error() string {
	return "session expired: " + e.Cause.Error()
}

func (e *SessionExpiredError) Unwrap() error {
	return e.Cause
}

// convertAPIError maps a raw api failure into the package taxonomy. Status
// errors become AuthErrors with a synthesized message; everything else is a
// transport problem.
func convertAPIError(err error) error {
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		return &AuthError{Message: authMessage(statusErr.Payload), Payload: statusErr.Payload}
	}
	return &NetworkError{Err: err}
}

// authMessage derives the user-facing message from a backend error payload,
// preferring the top-level detail field, then the first array element of the
// email/password field errors, then the generic fallback.
func authMessage(payload map[string]any) string {
	if detail, ok := payload["detail"].(string); ok && detail != "" {
		return detail
	}
	for _, field := range []string{"email", "password"} {
		values, ok := payload[field].([]any)
		if !ok {
			continue
		}
		if messages := utils.ToStringSlice(values); len(messages) > 0 && messages[0] != "" {
			return messages[0]
		}
	}
	return GenericErrorMessage
}
