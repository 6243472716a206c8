// Package flows holds the form flow controllers: thin orchestration units
// translating submission events into calls against the session manager and
// the notification emitter.
package flows

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/videoflix/videoflix-client/notify"
	"github.com/videoflix/videoflix-client/session"
)

// AuthService is the slice of the session manager the flows drive.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*session.User, error)
	Register(ctx context.Context, data session.RegisterRequest) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, uidToken, resetToken string, passwords session.PasswordResetConfirm) error
	ActivateAccount(ctx context.Context, uidToken, activationToken string) (string, error)
}

// Navigator performs the redirects the flows schedule.
type Navigator interface {
	Navigate(path string)
}

// Scheduler schedules a one-shot delayed action and returns a cancel
// function. The default implementation is time.AfterFunc.
type Scheduler func(d time.Duration, fn func()) (cancel func())

func afterFuncScheduler(d time.Duration, fn func()) func() {
	timer := time.AfterFunc(d, fn)
	return func() { timer.Stop() }
}

// Default redirect delays. The error delay is longer so the user has time
// to read the failure before losing the page.
const (
	DefaultRedirectDelay      = 3000 * time.Millisecond
	DefaultErrorRedirectDelay = 5000 * time.Millisecond
)

// Flows bundles the dependencies shared by every form flow controller.
type Flows struct {
	auth     AuthService
	notifier *notify.Emitter
	nav      Navigator
	schedule Scheduler
	log      zerolog.Logger

	redirectDelay      time.Duration
	errorRedirectDelay time.Duration
}

// Option defines a function type to modify the Flows instance.
type Option func(*Flows)

// WithScheduler replaces the delayed-action scheduler (primarily for
// testing).
func WithScheduler(s Scheduler) Option {
	return func(f *Flows) {
		f.schedule = s
	}
}

// WithRedirectDelays overrides the post-submit redirect delays.
func WithRedirectDelays(success, failure time.Duration) Option {
	return func(f *Flows) {
		f.redirectDelay = success
		f.errorRedirectDelay = failure
	}
}

// WithLogger sets the structured logger (defaults to a no-op logger).
func WithLogger(log zerolog.Logger) Option {
	return func(f *Flows) {
		f.log = log
	}
}

// New creates the flow controller factory.
func New(auth AuthService, notifier *notify.Emitter, nav Navigator, options ...Option) *Flows {
	f := &Flows{
		auth:               auth,
		notifier:           notifier,
		nav:                nav,
		schedule:           afterFuncScheduler,
		log:                zerolog.Nop(),
		redirectDelay:      DefaultRedirectDelay,
		errorRedirectDelay: DefaultErrorRedirectDelay,
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}
