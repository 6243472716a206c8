package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/videoflix/videoflix-client/api"
)

func TestPostDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/login/", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detail":"ok"}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL + "/api")
	require.NoError(t, err)

	var out struct {
		Detail string `json:"detail"`
	}
	err = client.Post(context.Background(), "/login/", map[string]string{"email": "a@b.com"}, &out)
	require.NoError(t, err)
	require.Equal(t, "ok", out.Detail)
}

func TestCookiesPersistAcrossRequests(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login/":
			http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "abc", Path: "/", HttpOnly: true})
			w.WriteHeader(http.StatusOK)
		case "/token/refresh/":
			cookie, err := r.Cookie("access_token")
			sawCookie = err == nil && cookie.Value == "abc"
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	require.NoError(t, client.Post(context.Background(), "/login/", nil, nil))
	require.NoError(t, client.Post(context.Background(), "/token/refresh/", nil, nil))
	require.True(t, sawCookie, "session cookie should be attached automatically")
	require.NotEmpty(t, client.Cookies())
}

func TestStatusErrorCarriesPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"email":["Enter a valid email address."]}`))
	}))
	defer srv.Close()

	client, err := api.New(srv.URL)
	require.NoError(t, err)

	err = client.Post(context.Background(), "/register/", map[string]string{}, nil)
	var statusErr *api.StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusBadRequest, statusErr.Status)
	require.Contains(t, statusErr.Payload, "email")
}

func TestTransportErrorIsNotStatusError(t *testing.T) {
	client, err := api.New("http://127.0.0.1:1")
	require.NoError(t, err)

	err = client.Get(context.Background(), "/video/", nil)
	require.Error(t, err)
	var statusErr *api.StatusError
	require.False(t, errors.As(err, &statusErr))
}

func TestRejectsRelativeBaseURL(t *testing.T) {
	_, err := api.New("localhost:8000/api")
	require.Error(t, err)
}
