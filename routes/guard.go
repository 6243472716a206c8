package routes

import "github.com/rs/zerolog"

// AuthState is the read side of the session stream consulted by the guards
// at the moment a navigation is attempted.
type AuthState interface {
	IsAuthenticated() bool
}

// Navigator performs the redirect side effect of a blocked navigation.
type Navigator interface {
	Navigate(path string)
}

// Guards evaluates the two access predicates. Both are pure except for the
// redirect side effect and never fail: an absent state reads as "no
// session".
type Guards struct {
	state AuthState
	nav   Navigator
	log   zerolog.Logger
}

// GuardsOption defines a function type to modify the Guards instance.
type GuardsOption func(*Guards)

// WithLogger sets the structured logger (defaults to a no-op logger).
func WithLogger(log zerolog.Logger) GuardsOption {
	return func(g *Guards) {
		g.log = log
	}
}

// NewGuards creates the guard set for a session state and navigator.
func NewGuards(state AuthState, nav Navigator, options ...GuardsOption) *Guards {
	g := &Guards{state: state, nav: nav, log: zerolog.Nop()}
	for _, opt := range options {
		opt(g)
	}
	return g
}

func (g *Guards) authenticated() bool {
	return g.state != nil && g.state.IsAuthenticated()
}

// RequireAuth permits navigation while a session is active; otherwise it
// redirects to the login entry point and blocks.
func (g *Guards) RequireAuth() bool {
	if g.authenticated() {
		return true
	}
	g.log.Debug().Str("redirect", LoginPath).Msg("blocked unauthenticated navigation")
	g.nav.Navigate(LoginPath)
	return false
}

// RequireGuest is the inverse: it permits navigation while no session is
// active, otherwise redirects to the authenticated landing area and blocks.
func (g *Guards) RequireGuest() bool {
	if !g.authenticated() {
		return true
	}
	g.log.Debug().Str("redirect", VideosPath).Msg("blocked guest-only navigation for active session")
	g.nav.Navigate(VideosPath)
	return false
}

// Allow evaluates the guard matching the route's access class.
func (g *Guards) Allow(route Route) bool {
	switch route.Access {
	case AccessGuestOnly:
		return g.RequireGuest()
	case AccessAuthOnly:
		return g.RequireAuth()
	default:
		return true
	}
}
