// Package session owns the process-wide authentication state: the current
// user, the login/logout/register/activation/password-reset operations, and
// the recurring token refresh that keeps an active session alive. It is the
// single writer of session state; everything else observes it through
// Subscribe or the synchronous reads.
package session

// User is the identity record of the authenticated account.
type User struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginResponse is the body of a successful login. Tokens are delivered as
// HttpOnly cookies, never in the body.
type LoginResponse struct {
	Detail string `json:"detail"`
	User   User   `json:"user"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the registration payload. Activation happens through a
// separate emailed link, so registering never mutates session state.
type RegisterRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ConfirmedPassword string `json:"confirmed_password"`
}

// PasswordResetConfirm carries the two password fields of the reset
// confirmation endpoint.
type PasswordResetConfirm struct {
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

type activationResponse struct {
	Message string `json:"message"`
}
