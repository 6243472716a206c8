package flows

import (
	"context"
	"strings"

	"github.com/videoflix/videoflix-client/routes"
	"github.com/videoflix/videoflix-client/session"
)

// RegisterForm carries the registration fields as submitted.
type RegisterForm struct {
	Email             string
	Password          string
	ConfirmedPassword string
	PrivacyPolicy     bool
}

// Validate applies all client-side rules: a valid email, password strength,
// matching passwords, and an accepted privacy policy.
func (f RegisterForm) Validate() error {
	if err := ValidateEmail(f.Email); err != nil {
		return err
	}
	if err := ValidatePassword(f.Password); err != nil {
		return err
	}
	if strings.TrimSpace(f.Password) != strings.TrimSpace(f.ConfirmedPassword) {
		return &session.ValidationError{Field: "confirmed_password", Message: "Passwords do not match"}
	}
	if !f.PrivacyPolicy {
		return &session.ValidationError{Field: "privacy_policy", Message: "Please accept the privacy policy to continue"}
	}
	return nil
}

// RegisterController drives the registration flow.
type RegisterController struct {
	flows *Flows
}

// Register creates the registration flow controller.
func (f *Flows) Register() *RegisterController {
	return &RegisterController{flows: f}
}

// Submit rejects invalid forms without a network call. On success it
// notifies and navigates to login; activation happens out of band via the
// emailed link.
func (c *RegisterController) Submit(ctx context.Context, form RegisterForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	err := c.flows.auth.Register(ctx, session.RegisterRequest{
		Email:             strings.TrimSpace(form.Email),
		Password:          form.Password,
		ConfirmedPassword: form.ConfirmedPassword,
	})
	if err != nil {
		c.flows.notifier.EmitError(singleMessage(err))
		return err
	}

	c.flows.notifier.EmitSuccess([]string{"Registration successful! Please check your email for activation link."})
	c.flows.nav.Navigate(routes.LoginPath)
	return nil
}
