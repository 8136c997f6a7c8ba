package constants

// Session / context keys
const (
	ContextKeyUserID  = "user_id"
	SessionCookieName = "mission_session"
)

// Validation limits
const (
	MinPasswordLength    = 8
	MinAccountNameLength = 3
	MaxAccountNameLength = 64
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Change log queries
const (
	DefaultChangeLogLimit = 50
	MaxChangeLogLimit     = 500
)
