package domain

import "time"

// User mirrors the persisted representation in the users table. Role
// membership is a one-directional foreign key; the reverse side (users of a
// role) is always resolved by query.
type User struct {
	ID         string
	Email      string
	FirstName  string
	LastName   string
	LegacyRole LegacyRole
	RoleID     *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Principal is the authenticated identity attached to a request by the
// transport layer before any permission logic runs.
type Principal struct {
	ID    string
	Email string
	Role  LegacyRole
}
