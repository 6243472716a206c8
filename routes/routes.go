// Package routes is the navigation surface of the client: the route table
// and the access policy consulted before a navigation completes.
package routes

import "strings"

// Access classifies who may enter a route.
type Access int

const (
	AccessPublic Access = iota
	AccessGuestOnly
	AccessAuthOnly
)

// Well-known navigation targets.
const (
	HomePath   = "/"
	LoginPath  = "/login"
	VideosPath = "/videos"
)

// Route pairs a path with its access class.
type Route struct {
	Path   string
	Access Access
}

// Table lists every route the client knows. Paths with URL-supplied
// parameters (the activation link) match by prefix.
var Table = []Route{
	{Path: HomePath, Access: AccessPublic},
	{Path: "/privacy", Access: AccessPublic},
	{Path: "/imprint", Access: AccessPublic},
	{Path: "/forgot-password", Access: AccessPublic},
	{Path: "/activate", Access: AccessPublic},
	{Path: LoginPath, Access: AccessGuestOnly},
	{Path: "/register", Access: AccessGuestOnly},
	{Path: VideosPath, Access: AccessAuthOnly},
}

// Resolve finds the route for a path. Unmatched paths resolve to the home
// route, mirroring the catch-all redirect of the route table.
func Resolve(path string) Route {
	for _, route := range Table {
		if path == route.Path {
			return route
		}
		if route.Path != HomePath && strings.HasPrefix(path, route.Path+"/") {
			return route
		}
	}
	return Table[0]
}
