package flows

import (
	"context"
	"strings"
	"sync"

	"github.com/videoflix/videoflix-client/routes"
	"github.com/videoflix/videoflix-client/session"
)

// ConfirmPasswordFlow is the password-reset confirmation flow. It holds the
// reset-link parameters and the two password fields, re-evaluating the
// cross-field match on every change. The context is discarded with the
// flow.
type ConfirmPasswordFlow struct {
	flows *Flows

	uidToken   string
	resetToken string

	mu              sync.Mutex
	newPassword     string
	confirmPassword string
	fieldError      string
	cancelPending   func()
}

// ConfirmPassword creates the reset-confirmation flow for the parameters
// extracted from the reset link.
func (f *Flows) ConfirmPassword(uidToken, resetToken string) *ConfirmPasswordFlow {
	return &ConfirmPasswordFlow{flows: f, uidToken: uidToken, resetToken: resetToken}
}

// SetNewPassword updates the first field and re-validates.
func (c *ConfirmPasswordFlow) SetNewPassword(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newPassword = value
	c.revalidate()
}

// SetConfirmPassword updates the second field and re-validates.
func (c *ConfirmPasswordFlow) SetConfirmPassword(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmPassword = value
	c.revalidate()
}

// FieldError returns the current field-level error, empty when the form is
// valid. The error clears the instant the two values match again.
func (c *ConfirmPasswordFlow) FieldError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fieldError
}

// Valid reports whether a submission would be accepted client-side.
func (c *ConfirmPasswordFlow) Valid() bool {
	return c.FieldError() == ""
}

func (c *ConfirmPasswordFlow) revalidate() {
	newPW := strings.TrimSpace(c.newPassword)
	confirmPW := strings.TrimSpace(c.confirmPassword)

	switch {
	case len(newPW) < MinPasswordLength:
		c.fieldError = "Password must be at least 8 characters long"
	case newPW != confirmPW:
		c.fieldError = "Passwords do not match"
	default:
		c.fieldError = ""
	}
}

// Submit confirms the reset. Invalid forms and incomplete link parameters
// are rejected without a network call. On success it notifies and schedules
// the redirect to login; on failure the nested error payload is flattened
// into an error notification.
func (c *ConfirmPasswordFlow) Submit(ctx context.Context) error {
	if c.uidToken == "" || c.resetToken == "" {
		return &session.ValidationError{Field: "token", Message: "Invalid password reset link"}
	}

	c.mu.Lock()
	c.revalidate()
	fieldError := c.fieldError
	newPW := strings.TrimSpace(c.newPassword)
	confirmPW := strings.TrimSpace(c.confirmPassword)
	c.mu.Unlock()

	if fieldError != "" {
		return &session.ValidationError{Field: "confirm_password", Message: fieldError}
	}

	err := c.flows.auth.ConfirmPasswordReset(ctx, c.uidToken, c.resetToken, session.PasswordResetConfirm{
		NewPassword:     newPW,
		ConfirmPassword: confirmPW,
	})
	if err != nil {
		c.flows.notifier.EmitError(errorMessages(err))
		return err
	}

	c.flows.notifier.EmitSuccess([]string{"Your password has been reset successfully!"})
	c.scheduleRedirect()
	return nil
}

func (c *ConfirmPasswordFlow) scheduleRedirect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelPending != nil {
		c.cancelPending()
	}
	c.cancelPending = c.flows.schedule(c.flows.redirectDelay, func() {
		c.flows.nav.Navigate(routes.LoginPath)
	})
}

// Teardown cancels the pending redirect on unmount.
func (c *ConfirmPasswordFlow) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelPending != nil {
		c.cancelPending()
		c.cancelPending = nil
	}
}
