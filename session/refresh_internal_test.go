package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/videoflix/videoflix-client/api"
)

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func managerWithCookie(t *testing.T, cookieValue string, nowTime time.Time) *Manager {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if cookieValue != "" {
			http.SetCookie(w, &http.Cookie{Name: accessTokenCookie, Value: cookieValue, Path: "/"})
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL)
	require.NoError(t, err)
	// Prime the jar with the server's cookie.
	require.NoError(t, client.Post(context.Background(), "/login/", nil, nil))

	manager, err := NewManager(client, nopNavigator{}, WithNowTime(func() time.Time { return nowTime }))
	require.NoError(t, err)
	t.Cleanup(manager.Close)
	return manager
}

func TestNextRefreshUsesTokenExpiry(t *testing.T) {
	now := time.Now()
	manager := managerWithCookie(t, signedToken(t, now.Add(30*time.Minute)), now)

	delay := manager.nextRefreshIn()
	require.InDelta(t, (20 * time.Minute).Seconds(), delay.Seconds(), (2 * time.Second).Seconds())
}

func TestNextRefreshClampsNearExpiry(t *testing.T) {
	now := time.Now()
	manager := managerWithCookie(t, signedToken(t, now.Add(time.Minute)), now)

	require.Equal(t, minRefreshDelay, manager.nextRefreshIn())
}

func TestNextRefreshFallsBackForOpaqueCookie(t *testing.T) {
	manager := managerWithCookie(t, "not-a-jwt", time.Now())
	require.Equal(t, DefaultRefreshInterval, manager.nextRefreshIn())
}

func TestNextRefreshFallsBackWithoutCookie(t *testing.T) {
	manager := managerWithCookie(t, "", time.Now())
	require.Equal(t, DefaultRefreshInterval, manager.nextRefreshIn())
}
