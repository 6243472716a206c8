package flows

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/videoflix/videoflix-client/routes"
	"github.com/videoflix/videoflix-client/session"
)

// ActivationStatus is the three-state progress of the activation flow.
type ActivationStatus string

const (
	ActivationProcessing ActivationStatus = "processing"
	ActivationSuccess    ActivationStatus = "success"
	ActivationError      ActivationStatus = "error"
)

const (
	activatingMessage       = "Activating your account..."
	invalidLinkMessage      = "Invalid activation link"
	activationFailedMessage = "Activation failed"
	activationOKMessage     = "Account successfully activated!"
)

// ActivationFlow activates an account from the emailed link parameters.
// Entry starts at processing; missing parameters transition straight to
// error without a backend call.
type ActivationFlow struct {
	flows *Flows

	uidToken        string
	activationToken string

	mu            sync.Mutex
	status        ActivationStatus
	message       string
	cancelPending func()
}

// Activation creates the activation flow for the link parameters.
func (f *Flows) Activation(uidToken, activationToken string) *ActivationFlow {
	return &ActivationFlow{
		flows:           f,
		uidToken:        uidToken,
		activationToken: activationToken,
		status:          ActivationProcessing,
		message:         activatingMessage,
	}
}

// Status returns the current flow status.
func (a *ActivationFlow) Status() ActivationStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Message returns the current user-facing status message.
func (a *ActivationFlow) Message() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.message
}

// Start runs the activation automatically on entry.
func (a *ActivationFlow) Start(ctx context.Context) {
	if a.uidToken == "" || a.activationToken == "" {
		a.fail(invalidLinkMessage)
		return
	}
	a.activate(ctx)
}

// Retry re-invokes the activation call, transitioning from error back to
// processing. A retry on an invalid link fails again without a call.
func (a *ActivationFlow) Retry(ctx context.Context) {
	a.Teardown()
	a.Start(ctx)
}

func (a *ActivationFlow) activate(ctx context.Context) {
	a.transition(ActivationProcessing, activatingMessage)

	message, err := a.flows.auth.ActivateAccount(ctx, a.uidToken, a.activationToken)
	if err != nil {
		a.fail(failureMessage(err))
		return
	}

	if message == "" {
		message = activationOKMessage
	}
	a.succeed(message)
}

func (a *ActivationFlow) succeed(message string) {
	a.transition(ActivationSuccess, message)
	a.flows.notifier.EmitSuccess([]string{message})
	a.redirectAfter(a.flows.redirectDelay)
}

func (a *ActivationFlow) fail(message string) {
	a.transition(ActivationError, message)
	a.flows.notifier.EmitError([]string{message})
	a.redirectAfter(a.flows.errorRedirectDelay)
}

func (a *ActivationFlow) transition(status ActivationStatus, message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = status
	a.message = message
}

func (a *ActivationFlow) redirectAfter(delay time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancelPending != nil {
		a.cancelPending()
	}
	a.cancelPending = a.flows.schedule(delay, func() {
		a.flows.nav.Navigate(routes.LoginPath)
	})
}

// Teardown cancels the pending redirect on unmount.
func (a *ActivationFlow) Teardown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cancelPending != nil {
		a.cancelPending()
		a.cancelPending = nil
	}
}

// failureMessage prefers the backend's message field, then falls back to a
// generic activation failure.
func failureMessage(err error) string {
	var authErr *session.AuthError
	if errors.As(err, &authErr) {
		if msg, ok := authErr.Payload["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return activationFailedMessage
}
