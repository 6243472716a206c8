package routes

// Router resolves a requested path against the table, consults the access
// policy, and completes the navigation when permitted. Blocked navigations
// have already been redirected by the guard.
type Router struct {
	guards *Guards
	nav    Navigator
}

// NewRouter creates a Router sharing the guard set's navigator.
func NewRouter(guards *Guards, nav Navigator) *Router {
	return &Router{guards: guards, nav: nav}
}

// Go attempts to navigate to path. It returns true when the requested
// navigation completed, false when a guard redirected elsewhere.
func (r *Router) Go(path string) bool {
	route := Resolve(path)
	if !r.guards.Allow(route) {
		return false
	}

	if route.Path == HomePath && path != HomePath {
		// Catch-all: unmatched paths land on the home route.
		r.nav.Navigate(HomePath)
		return false
	}

	r.nav.Navigate(path)
	return true
}
