package config

import "time"

type SessionConfig interface {
	GetTokenRefreshInterval() time.Duration
	GetTokenRefreshMargin() time.Duration
	GetToastDuration() time.Duration
	GetRedirectDelay() time.Duration
	GetErrorRedirectDelay() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetTokenRefreshInterval is the cadence of the background token refresh.
// Backend access tokens expire after 60 minutes; refreshing every 50 leaves
// a safety margin.
func (Session) GetTokenRefreshInterval() time.Duration {
	return 50 * time.Minute
}

// GetTokenRefreshMargin is how long before a known token expiry the refresh
// should fire when the expiry can be read from the session cookie.
func (Session) GetTokenRefreshMargin() time.Duration {
	return 10 * time.Minute
}

func (Session) GetToastDuration() time.Duration {
	return 3000 * time.Millisecond
}

func (Session) GetRedirectDelay() time.Duration {
	return 3000 * time.Millisecond
}

// GetErrorRedirectDelay is longer than the success delay so the user has
// time to read the failure before losing the page.
func (Session) GetErrorRedirectDelay() time.Duration {
	return 5000 * time.Millisecond
}
