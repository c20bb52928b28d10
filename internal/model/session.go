package model

import "time"

// Role constants
const (
	RoleAdministrator = "administrator"
	RoleUser          = "user"
)

// Session is the record produced by a login. One value, stored under the
// current-session key, is authoritative; a copy is also kept per username
// for the read-only user listing.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	LastLogin time.Time `json:"lastLogin"`
}

// IsAdmin reports whether the session carries the administrator role.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == RoleAdministrator
}
