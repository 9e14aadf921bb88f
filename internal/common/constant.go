// Package common contains shared constants and sentinel errors used across
// the recipe server, its repositories and the management tooling.
package common

// AuthorizationHeaderName carries the bearer token on incoming requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the JWT inside the Authorization header.
const BearerPrefix = "Bearer "

// Admin roles. A manager implicitly holds every editor permission.
const (
	RoleManager = "manager"
	RoleEditor  = "editor"
)
