package config

import "time"

type APIConfig interface {
	GetAPIBaseURL() string
	GetRequestTimeout() time.Duration
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL returns the base URL all backend endpoint paths are
// resolved against (e.g. "http://localhost:8000/api").
func (API) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8000/api")
}

func (API) GetRequestTimeout() time.Duration {
	return 30 * time.Second
}
