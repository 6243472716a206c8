package flows_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/videoflix/videoflix-client/flows"
	"github.com/videoflix/videoflix-client/notify"
	"github.com/videoflix/videoflix-client/routes"
	"github.com/videoflix/videoflix-client/session"
)

type fakeAuth struct {
	calls []string

	loginErr    error
	registerErr error
	resetErr    error
	confirmErr  error

	activateMessage string
	activateErr     error

	lastRegister session.RegisterRequest
	lastConfirm  session.PasswordResetConfirm
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (*session.User, error) {
	f.calls = append(f.calls, "login")
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &session.User{ID: 1, Email: email}, nil
}

func (f *fakeAuth) Register(_ context.Context, data session.RegisterRequest) error {
	f.calls = append(f.calls, "register")
	f.lastRegister = data
	return f.registerErr
}

func (f *fakeAuth) RequestPasswordReset(_ context.Context, _ string) error {
	f.calls = append(f.calls, "reset")
	return f.resetErr
}

func (f *fakeAuth) ConfirmPasswordReset(_ context.Context, _, _ string, passwords session.PasswordResetConfirm) error {
	f.calls = append(f.calls, "confirm")
	f.lastConfirm = passwords
	return f.confirmErr
}

func (f *fakeAuth) ActivateAccount(_ context.Context, _, _ string) (string, error) {
	f.calls = append(f.calls, "activate")
	return f.activateMessage, f.activateErr
}

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.paths))
	copy(out, n.paths)
	return out
}

// manualScheduler records scheduled actions so tests control time.
type manualScheduler struct {
	mu      sync.Mutex
	pending []*scheduled
}

type scheduled struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

func (s *manualScheduler) schedule(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := &scheduled{delay: d, fn: fn}
	s.pending = append(s.pending, entry)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		entry.cancelled = true
	}
}

func (s *manualScheduler) fire() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, entry := range pending {
		if !entry.cancelled {
			entry.fn()
		}
	}
}

func (s *manualScheduler) delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Duration
	for _, entry := range s.pending {
		if !entry.cancelled {
			out = append(out, entry.delay)
		}
	}
	return out
}

type harness struct {
	auth      *fakeAuth
	nav       *recordingNavigator
	scheduler *manualScheduler
	toasts    chan notify.Notification
	flows     *flows.Flows
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	auth := &fakeAuth{}
	nav := &recordingNavigator{}
	scheduler := &manualScheduler{}
	emitter := notify.NewEmitter()
	toasts := emitter.Subscribe()
	t.Cleanup(func() { emitter.Unsubscribe(toasts) })

	return &harness{
		auth:      auth,
		nav:       nav,
		scheduler: scheduler,
		toasts:    toasts,
		flows:     flows.New(auth, emitter, nav, flows.WithScheduler(scheduler.schedule)),
	}
}

func (h *harness) expectToast(t *testing.T, kind notify.Kind) notify.Notification {
	t.Helper()
	select {
	case n := <-h.toasts:
		require.Equal(t, kind, n.Kind)
		return n
	default:
		t.Fatal("expected a notification")
		return notify.Notification{}
	}
}

func (h *harness) expectNoToast(t *testing.T) {
	t.Helper()
	select {
	case n := <-h.toasts:
		t.Fatalf("unexpected notification %v", n.Messages)
	default:
	}
}

func TestLoginValidationRejectsWithoutNetworkCall(t *testing.T) {
	h := newHarness(t)
	login := h.flows.Login()

	var valErr *session.ValidationError
	require.ErrorAs(t, login.Submit(context.Background(), "not-an-email", "longenough"), &valErr)
	require.ErrorAs(t, login.Submit(context.Background(), "a@b.com", "short"), &valErr)
	require.Empty(t, h.auth.calls)
}

func TestLoginSuccessNavigatesToVideos(t *testing.T) {
	h := newHarness(t)

	require.NoError(t, h.flows.Login().Submit(context.Background(), " a@b.com ", "longpw01"))
	require.Equal(t, []string{routes.VideosPath}, h.nav.visited())
}

func TestLoginFailureEmitsSynthesizedMessage(t *testing.T) {
	h := newHarness(t)
	h.auth.loginErr = &session.AuthError{Message: "No active account found"}

	err := h.flows.Login().Submit(context.Background(), "a@b.com", "longpw01")
	require.Error(t, err)
	toast := h.expectToast(t, notify.KindError)
	require.Equal(t, []string{"No active account found"}, toast.Messages)
	require.Empty(t, h.nav.visited())
}

func TestRegisterFormValidation(t *testing.T) {
	valid := flows.RegisterForm{
		Email:             "a@b.com",
		Password:          "longpw01",
		ConfirmedPassword: "longpw01",
		PrivacyPolicy:     true,
	}

	cases := map[string]func(flows.RegisterForm) flows.RegisterForm{
		"bad email":       func(f flows.RegisterForm) flows.RegisterForm { f.Email = "nope"; return f },
		"short password":  func(f flows.RegisterForm) flows.RegisterForm { f.Password = "short"; return f },
		"mismatch":        func(f flows.RegisterForm) flows.RegisterForm { f.ConfirmedPassword = "different1"; return f },
		"privacy missing": func(f flows.RegisterForm) flows.RegisterForm { f.PrivacyPolicy = false; return f },
	}

	require.NoError(t, valid.Validate())
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			var valErr *session.ValidationError
			require.ErrorAs(t, mutate(valid).Validate(), &valErr)
		})
	}
}

func TestRegisterSubmitSuccess(t *testing.T) {
	h := newHarness(t)

	err := h.flows.Register().Submit(context.Background(), flows.RegisterForm{
		Email:             "a@b.com",
		Password:          "longpw01",
		ConfirmedPassword: "longpw01",
		PrivacyPolicy:     true,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"register"}, h.auth.calls)
	require.Equal(t, "a@b.com", h.auth.lastRegister.Email)

	h.expectToast(t, notify.KindSuccess)
	require.Equal(t, []string{routes.LoginPath}, h.nav.visited())
}

func TestForgotPasswordSuccessSchedulesRedirect(t *testing.T) {
	h := newHarness(t)
	forgot := h.flows.ForgotPassword()

	require.NoError(t, forgot.Submit(context.Background(), "a@b.com"))
	toast := h.expectToast(t, notify.KindSuccess)
	require.Equal(t, []string{"Password reset email sent! Please check your inbox."}, toast.Messages)

	require.Equal(t, []time.Duration{flows.DefaultRedirectDelay}, h.scheduler.delays())
	require.Empty(t, h.nav.visited(), "redirect waits for the delay")

	h.scheduler.fire()
	require.Equal(t, []string{routes.LoginPath}, h.nav.visited())
}

func TestForgotPasswordFailureFlattensNestedPayload(t *testing.T) {
	h := newHarness(t)
	h.auth.resetErr = &session.AuthError{
		Message: "Enter a valid email address.",
		Payload: map[string]any{
			"email":  []any{"Enter a valid email address.", "This field is odd."},
			"nested": map[string]any{"inner": []any{"deep message"}},
		},
	}

	require.Error(t, h.flows.ForgotPassword().Submit(context.Background(), "a@b.com"))
	toast := h.expectToast(t, notify.KindError)
	require.Equal(t, []string{
		"Enter a valid email address.",
		"This field is odd.",
		"deep message",
	}, toast.Messages)
	require.Empty(t, h.scheduler.delays(), "no redirect on failure")
}

func TestForgotPasswordTeardownCancelsRedirect(t *testing.T) {
	h := newHarness(t)
	forgot := h.flows.ForgotPassword()

	require.NoError(t, forgot.Submit(context.Background(), "a@b.com"))
	forgot.Teardown()
	h.scheduler.fire()
	require.Empty(t, h.nav.visited())
}

func TestConfirmPasswordCrossFieldValidation(t *testing.T) {
	h := newHarness(t)
	confirm := h.flows.ConfirmPassword("uid", "token")

	confirm.SetNewPassword("newpassword1")
	confirm.SetConfirmPassword("different")
	require.Equal(t, "Passwords do not match", confirm.FieldError())

	// The error clears the instant the values match again, trimming both.
	confirm.SetConfirmPassword("  newpassword1  ")
	require.Empty(t, confirm.FieldError())
	require.True(t, confirm.Valid())

	confirm.SetNewPassword("short")
	require.Equal(t, "Password must be at least 8 characters long", confirm.FieldError())
}

func TestConfirmPasswordSubmitRejectsInvalidFormWithoutCall(t *testing.T) {
	h := newHarness(t)
	confirm := h.flows.ConfirmPassword("uid", "token")
	confirm.SetNewPassword("newpassword1")
	confirm.SetConfirmPassword("other")

	var valErr *session.ValidationError
	require.ErrorAs(t, confirm.Submit(context.Background()), &valErr)
	require.Empty(t, h.auth.calls)
}

func TestConfirmPasswordRequiresLinkParameters(t *testing.T) {
	h := newHarness(t)
	confirm := h.flows.ConfirmPassword("", "token")
	confirm.SetNewPassword("newpassword1")
	confirm.SetConfirmPassword("newpassword1")

	var valErr *session.ValidationError
	require.ErrorAs(t, confirm.Submit(context.Background()), &valErr)
	require.Empty(t, h.auth.calls)
}

func TestConfirmPasswordSubmitSuccess(t *testing.T) {
	h := newHarness(t)
	confirm := h.flows.ConfirmPassword("uid", "token")
	confirm.SetNewPassword(" newpassword1 ")
	confirm.SetConfirmPassword("newpassword1")

	require.NoError(t, confirm.Submit(context.Background()))
	require.Equal(t, "newpassword1", h.auth.lastConfirm.NewPassword, "submitted values are trimmed")

	h.expectToast(t, notify.KindSuccess)
	h.scheduler.fire()
	require.Equal(t, []string{routes.LoginPath}, h.nav.visited())
}

func TestActivationMissingParameterFailsWithoutCall(t *testing.T) {
	h := newHarness(t)
	activation := h.flows.Activation("uid", "")

	activation.Start(context.Background())

	require.Equal(t, flows.ActivationError, activation.Status())
	require.Equal(t, "Invalid activation link", activation.Message())
	require.Empty(t, h.auth.calls, "no network call for an invalid link")
	h.expectToast(t, notify.KindError)
	require.Equal(t, []time.Duration{flows.DefaultErrorRedirectDelay}, h.scheduler.delays())
}

func TestActivationSuccess(t *testing.T) {
	h := newHarness(t)
	h.auth.activateMessage = "Account successfully activated!"
	activation := h.flows.Activation("uid", "token")

	activation.Start(context.Background())

	require.Equal(t, flows.ActivationSuccess, activation.Status())
	require.Equal(t, "Account successfully activated!", activation.Message())
	toast := h.expectToast(t, notify.KindSuccess)
	require.Equal(t, []string{"Account successfully activated!"}, toast.Messages)
	require.Equal(t, []time.Duration{flows.DefaultRedirectDelay}, h.scheduler.delays())

	h.scheduler.fire()
	require.Equal(t, []string{routes.LoginPath}, h.nav.visited())
}

func TestActivationFailurePrefersBackendMessage(t *testing.T) {
	h := newHarness(t)
	h.auth.activateErr = &session.AuthError{
		Message: session.GenericErrorMessage,
		Payload: map[string]any{"message": "Activation link has expired"},
	}
	activation := h.flows.Activation("uid", "token")

	activation.Start(context.Background())

	require.Equal(t, flows.ActivationError, activation.Status())
	require.Equal(t, "Activation link has expired", activation.Message())
	require.Equal(t, []time.Duration{flows.DefaultErrorRedirectDelay}, h.scheduler.delays())
}

func TestActivationRetryRecoversFromError(t *testing.T) {
	h := newHarness(t)
	h.auth.activateErr = &session.AuthError{Message: "boom"}
	activation := h.flows.Activation("uid", "token")

	activation.Start(context.Background())
	require.Equal(t, flows.ActivationError, activation.Status())
	h.expectToast(t, notify.KindError)

	h.auth.activateErr = nil
	h.auth.activateMessage = "all good"
	activation.Retry(context.Background())

	require.Equal(t, flows.ActivationSuccess, activation.Status())
	require.Equal(t, "all good", activation.Message())
	require.Equal(t, []string{"activate", "activate"}, h.auth.calls)
}

func TestExtractMessagesDepthGuard(t *testing.T) {
	// Build a payload nested beyond the walk's depth bound.
	deep := any("too deep")
	for i := 0; i < 20; i++ {
		deep = map[string]any{"k": deep}
	}
	require.Empty(t, flows.ExtractMessages(deep))

	require.Equal(t, []string{"a", "b"}, flows.ExtractMessages(map[string]any{
		"x": "a",
		"y": []any{"b"},
	}))
}
