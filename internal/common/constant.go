package common

const (
	// AuthorizationHeader carries the bearer token on inbound HTTP requests.
	AuthorizationHeader = "Authorization"

	// BearerScheme is the only authorization scheme the server accepts.
	BearerScheme = "Bearer"

	// RoleAdmin grants access to other users' votes and to user management.
	RoleAdmin = "admin"
)
