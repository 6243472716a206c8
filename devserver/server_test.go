package devserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/videoflix/videoflix-client/api"
	"github.com/videoflix/videoflix-client/devserver"
	"github.com/videoflix/videoflix-client/session"
	"github.com/videoflix/videoflix-client/videos"
)

type noopNavigator struct{}

func (noopNavigator) Navigate(string) {}

type fixture struct {
	server  *devserver.Server
	backend *httptest.Server
	client  *api.Client
	manager *session.Manager
}

func setup(t *testing.T) *fixture {
	t.Helper()

	server := devserver.New()
	backend := httptest.NewServer(server.Handler())
	t.Cleanup(backend.Close)

	client, err := api.New(backend.URL)
	require.NoError(t, err)

	manager, err := session.NewManager(client, noopNavigator{})
	require.NoError(t, err)
	t.Cleanup(manager.Close)

	return &fixture{server: server, backend: backend, client: client, manager: manager}
}

// register creates an account through the API and returns its id and
// activation token.
func (f *fixture) register(t *testing.T, email, password string) (int64, string) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{
		"email":              email,
		"password":           password,
		"confirmed_password": password,
	})
	resp, err := http.Post(f.backend.URL+"/register/", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		User  struct{ ID int64 }
		Token string
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.NotEmpty(t, created.Token)
	return created.User.ID, created.Token
}

func TestFullAccountLifecycle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	uid, activationToken := f.register(t, "lifecycle@example.com", "Longpw123")

	// The account is inactive until the activation link is followed.
	_, err := f.manager.Login(ctx, "lifecycle@example.com", "Longpw123")
	var authErr *session.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "No active account found with the given credentials", authErr.Message)

	message, err := f.manager.ActivateAccount(ctx, strconv.FormatInt(uid, 10), activationToken)
	require.NoError(t, err)
	require.Equal(t, "Account successfully activated!", message)

	user, err := f.manager.Login(ctx, "lifecycle@example.com", "Longpw123")
	require.NoError(t, err)
	require.Equal(t, "lifecycle@example.com", user.Email)
	require.True(t, f.manager.IsAuthenticated())

	// The login cookies authenticate the catalog endpoint.
	catalog, err := videos.NewService(f.client)
	require.NoError(t, err)
	listing, err := catalog.List(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, listing)

	require.NoError(t, f.manager.Logout(ctx))
	require.False(t, f.manager.IsAuthenticated())
}

func TestCatalogRequiresSession(t *testing.T) {
	f := setup(t)

	catalog, err := videos.NewService(f.client)
	require.NoError(t, err)

	_, err = catalog.List(context.Background())
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.Status)
}

func TestTokenRefreshRenewsAccessCookie(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	uid, token := f.register(t, "refresh@example.com", "Longpw123")
	_, err := f.manager.ActivateAccount(ctx, strconv.FormatInt(uid, 10), token)
	require.NoError(t, err)
	_, err = f.manager.Login(ctx, "refresh@example.com", "Longpw123")
	require.NoError(t, err)

	var refreshed struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, f.client.Post(ctx, "/token/refresh/", nil, &refreshed))
	require.Equal(t, "Token refreshed", refreshed.Detail)
}

func TestRefreshWithoutCookieIsRejected(t *testing.T) {
	f := setup(t)

	err := f.client.Post(context.Background(), "/token/refresh/", nil, nil)
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusUnauthorized, statusErr.Status)
}

func TestPasswordResetRoundTrip(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	uid, token := f.register(t, "reset@example.com", "Longpw123")
	_, err := f.manager.ActivateAccount(ctx, strconv.FormatInt(uid, 10), token)
	require.NoError(t, err)

	require.NoError(t, f.manager.RequestPasswordReset(ctx, "reset@example.com"))

	account, err := f.server.Accounts().GetByEmail("reset@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, account.ResetToken)

	err = f.manager.ConfirmPasswordReset(ctx, strconv.FormatInt(uid, 10), account.ResetToken, session.PasswordResetConfirm{
		NewPassword:     "Evenlonger456",
		ConfirmPassword: "Evenlonger456",
	})
	require.NoError(t, err)

	// The old password no longer works, the new one does.
	_, err = f.manager.Login(ctx, "reset@example.com", "Longpw123")
	require.Error(t, err)
	_, err = f.manager.Login(ctx, "reset@example.com", "Evenlonger456")
	require.NoError(t, err)
}

func TestPasswordResetDoesNotRevealAccounts(t *testing.T) {
	f := setup(t)

	require.NoError(t, f.manager.RequestPasswordReset(context.Background(), "nobody@example.com"))
}

func TestActivationWithWrongTokenFails(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	uid, _ := f.register(t, "wrongtoken@example.com", "Longpw123")

	_, err := f.manager.ActivateAccount(ctx, strconv.FormatInt(uid, 10), "not-the-token")
	var authErr *session.AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "Activation failed", authErr.Payload["message"])
}

func TestRegisterValidation(t *testing.T) {
	f := setup(t)

	cases := map[string]map[string]string{
		"weak password": {
			"email":              "weak@example.com",
			"password":           "alllowercase",
			"confirmed_password": "alllowercase",
		},
		"mismatch": {
			"email":              "mismatch@example.com",
			"password":           "Longpw123",
			"confirmed_password": "Longpw124",
		},
		"bad email": {
			"email":              "not-an-email",
			"password":           "Longpw123",
			"confirmed_password": "Longpw123",
		},
	}

	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			body, _ := json.Marshal(payload)
			resp, err := http.Post(f.backend.URL+"/register/", "application/json", strings.NewReader(string(body)))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCorsAllowsConfiguredOrigin(t *testing.T) {
	f := setup(t)

	req, err := http.NewRequest(http.MethodOptions, f.backend.URL+"/login/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:4200")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "http://localhost:4200", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
}
