package flows

import (
	"context"
	"strings"
	"sync"

	"github.com/videoflix/videoflix-client/routes"
)

// ForgotPasswordController drives the reset-link request flow.
type ForgotPasswordController struct {
	flows *Flows

	mu            sync.Mutex
	cancelPending func()
}

// ForgotPassword creates the forgot-password flow controller.
func (f *Flows) ForgotPassword() *ForgotPasswordController {
	return &ForgotPasswordController{flows: f}
}

// Submit requests a password-reset email. On success it notifies and
// schedules a redirect to login; on failure the nested error payload is
// flattened into an error notification.
func (c *ForgotPasswordController) Submit(ctx context.Context, email string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}

	if err := c.flows.auth.RequestPasswordReset(ctx, strings.TrimSpace(email)); err != nil {
		c.flows.notifier.EmitError(errorMessages(err))
		return err
	}

	c.flows.notifier.EmitSuccess([]string{"Password reset email sent! Please check your inbox."})
	c.scheduleRedirect()
	return nil
}

func (c *ForgotPasswordController) scheduleRedirect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelPending != nil {
		c.cancelPending()
	}
	c.cancelPending = c.flows.schedule(c.flows.redirectDelay, func() {
		c.flows.nav.Navigate(routes.LoginPath)
	})
}

// Teardown cancels the pending redirect so no timer fires after the flow's
// surface is gone.
func (c *ForgotPasswordController) Teardown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelPending != nil {
		c.cancelPending()
		c.cancelPending = nil
	}
}
