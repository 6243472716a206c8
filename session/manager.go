package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/videoflix/videoflix-client/api"
	"github.com/videoflix/videoflix-client/notify"
)

const (
	// LoginPath is where the user lands after logout or session expiry.
	LoginPath = "/login"

	// DefaultRefreshInterval is the refresh cadence when the token expiry
	// cannot be read from the session cookie: tokens live 60 minutes,
	// refreshing every 50 leaves a safety margin.
	DefaultRefreshInterval = 50 * time.Minute

	// DefaultRefreshMargin is how long before a known token expiry the
	// refresh fires.
	DefaultRefreshMargin = 10 * time.Minute

	accessTokenCookie = "access_token"
	minRefreshDelay   = time.Second

	expiredMessage = "Your session has expired. Please log in again."
)

// Navigator performs the redirect side effects of the session lifecycle
// (logout and refresh failure both route to the login entry point).
type Navigator interface {
	Navigate(path string)
}

// Manager holds the current-user state and drives every authentication
// operation. Exactly one refresh task runs per active session; starting a
// session always cancels any pre-existing task first.
type Manager struct {
	api     *api.Client
	nav     Navigator
	emitter *notify.Emitter
	log     zerolog.Logger

	stream *userStream

	mu            sync.Mutex // serializes session start/end transitions
	refreshCancel context.CancelFunc

	refreshInterval time.Duration
	refreshMargin   time.Duration
	retryAttempts   uint64
	retryBase       time.Duration
	nowTime         func() time.Time
}

// ManagerOption defines a function type to modify the Manager instance.
type ManagerOption func(*Manager)

// WithLogger sets the structured logger (defaults to a no-op logger).
func WithLogger(log zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.log = log
	}
}

// WithNotifier wires a notification emitter for session-expiry messages.
func WithNotifier(emitter *notify.Emitter) ManagerOption {
	return func(m *Manager) {
		m.emitter = emitter
	}
}

// WithRefreshInterval overrides the fallback refresh cadence (primarily for
// testing).
func WithRefreshInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.refreshInterval = d
	}
}

// WithRefreshRetry configures the retry policy applied to transient refresh
// failures before the session is torn down.
func WithRefreshRetry(attempts uint64, base time.Duration) ManagerOption {
	return func(m *Manager) {
		m.retryAttempts = attempts
		m.retryBase = base
	}
}

// WithNowTime sets the now time function (primarily for testing).
func WithNowTime(nowFunc func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowTime = nowFunc
	}
}

// NewManager initializes a Manager with required dependencies. Optional
// configuration can be provided via options.
func NewManager(apiClient *api.Client, nav Navigator, options ...ManagerOption) (*Manager, error) {
	if apiClient == nil {
		return nil, errors.New("[NewManager] api client is required")
	}
	if nav == nil {
		return nil, errors.New("[NewManager] navigator is required")
	}

	m := &Manager{
		api:             apiClient,
		nav:             nav,
		log:             zerolog.Nop(),
		stream:          newUserStream(),
		refreshInterval: DefaultRefreshInterval,
		refreshMargin:   DefaultRefreshMargin,
		retryAttempts:   2,
		retryBase:       500 * time.Millisecond,
		nowTime:         time.Now,
	}
	for _, opt := range options {
		opt(m)
	}

	return m, nil
}

// Login authenticates against the backend. On success the current user is
// set and the refresh task (re)started; on failure state is left unchanged.
func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	var resp LoginResponse
	if err := m.api.Post(ctx, "/login/", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, convertAPIError(err)
	}

	m.startSession(&resp.User)
	m.log.Info().Str("email", resp.User.Email).Msg("login succeeded, session started")
	return &resp.User, nil
}

// Register forwards a registration payload. Session state is never touched,
// regardless of outcome; activation is a separate step.
func (m *Manager) Register(ctx context.Context, data RegisterRequest) error {
	if err := m.api.Post(ctx, "/register/", data, nil); err != nil {
		return convertAPIError(err)
	}
	return nil
}

// Logout asks the backend to end the session, then clears local state and
// redirects to login regardless of the server outcome: best-effort server
// logout, always-effective local logout.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.api.Post(ctx, "/logout/", nil, nil)

	m.endSession()
	m.nav.Navigate(LoginPath)
	m.log.Info().Msg("logged out")

	if err != nil {
		return convertAPIError(err)
	}
	return nil
}

// RequestPasswordReset asks the backend to mail a reset link.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	if err := m.api.Post(ctx, "/password_reset/", passwordResetRequest{Email: email}, nil); err != nil {
		return convertAPIError(err)
	}
	return nil
}

// ConfirmPasswordReset submits the new password for the given reset link
// parameters.
func (m *Manager) ConfirmPasswordReset(ctx context.Context, uidToken, resetToken string, passwords PasswordResetConfirm) error {
	path := fmt.Sprintf("/password_confirm/%s/%s/", uidToken, resetToken)
	if err := m.api.Post(ctx, path, passwords, nil); err != nil {
		return convertAPIError(err)
	}
	return nil
}

// ActivateAccount activates the account referenced by the emailed link
// parameters and returns the backend's message.
func (m *Manager) ActivateAccount(ctx context.Context, uidToken, activationToken string) (string, error) {
	var resp activationResponse
	path := fmt.Sprintf("/activate/%s/%s/", uidToken, activationToken)
	if err := m.api.Get(ctx, path, &resp); err != nil {
		return "", convertAPIError(err)
	}
	return resp.Message, nil
}

// IsAuthenticated reports whether a session is currently active.
func (m *Manager) IsAuthenticated() bool {
	return m.stream.get() != nil
}

// CurrentUser returns the current identity, or nil when no session exists.
func (m *Manager) CurrentUser() *User {
	return m.stream.get()
}

// Subscribe registers a callback that receives the current user immediately
// and again on every subsequent change (nil means no session). The returned
// cancel function must be called on teardown.
func (m *Manager) Subscribe(fn func(*User)) (cancel func()) {
	return m.stream.subscribe(fn)
}

// Close cancels the refresh task without touching server state. For process
// teardown; the session cookies in the jar stay valid.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopRefreshLocked()
}

func (m *Manager) startSession(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopRefreshLocked()
	m.stream.set(u)

	ctx, cancel := context.WithCancel(context.Background())
	m.refreshCancel = cancel
	go m.refreshLoop(ctx)
}

func (m *Manager) endSession() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopRefreshLocked()
	m.stream.set(nil)
}

func (m *Manager) stopRefreshLocked() {
	if m.refreshCancel != nil {
		m.refreshCancel()
		m.refreshCancel = nil
	}
}

func (m *Manager) refreshLoop(ctx context.Context) {
	for {
		timer := time.NewTimer(m.nextRefreshIn())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := m.refresh(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			m.expire(err)
			return
		}
		m.log.Debug().Msg("session token refreshed")
	}
}

// nextRefreshIn prefers the actual token expiry when the access cookie is a
// readable JWT, falling back to the configured interval. The token is not
// verified here; only its exp claim is of interest.
func (m *Manager) nextRefreshIn() time.Duration {
	for _, cookie := range m.api.Cookies() {
		if cookie.Name != accessTokenCookie {
			continue
		}
		claims := jwt.RegisteredClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(cookie.Value, &claims); err != nil {
			break
		}
		if claims.ExpiresAt == nil {
			break
		}
		delay := claims.ExpiresAt.Time.Sub(m.nowTime()) - m.refreshMargin
		if delay < minRefreshDelay {
			delay = minRefreshDelay
		}
		return delay
	}
	return m.refreshInterval
}

// refresh calls the refresh endpoint, retrying transient transport failures
// with exponential backoff. A status rejection is terminal: the backend has
// decided the session is no longer valid.
func (m *Manager) refresh(ctx context.Context) error {
	backoff := retry.WithMaxRetries(m.retryAttempts, retry.NewExponential(m.retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := m.api.Post(ctx, "/token/refresh/", nil, nil)
		if err == nil {
			return nil
		}
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) {
			return err
		}
		m.log.Warn().Err(err).Msg("transient refresh failure, retrying")
		return retry.RetryableError(err)
	})
}

// expire mirrors logout's terminal effect after a failed refresh: clear
// state, stop the task, notify, route to login.
func (m *Manager) expire(cause error) {
	expErr := &SessionExpiredError{Cause: cause}
	m.log.Warn().Err(expErr).Msg("token refresh failed, ending session")

	m.endSession()
	if m.emitter != nil {
		m.emitter.EmitError([]string{expiredMessage})
	}
	m.nav.Navigate(LoginPath)
}
