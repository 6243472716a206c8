package flows

import (
	"context"
	"strings"

	"github.com/videoflix/videoflix-client/routes"
)

// LoginController translates a login submission into session calls.
type LoginController struct {
	flows *Flows
}

// Login creates the login flow controller.
func (f *Flows) Login() *LoginController {
	return &LoginController{flows: f}
}

// Submit validates the credentials client-side, performs the login, and on
// success navigates to the authenticated landing area. Failures are
// surfaced as an error notification.
func (c *LoginController) Submit(ctx context.Context, email, password string) error {
	if err := ValidateEmail(email); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	if _, err := c.flows.auth.Login(ctx, strings.TrimSpace(email), password); err != nil {
		c.flows.notifier.EmitError(singleMessage(err))
		return err
	}

	c.flows.nav.Navigate(routes.VideosPath)
	return nil
}
