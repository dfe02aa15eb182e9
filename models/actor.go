package models

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID   string
	Username string
	Role     Role
}

func (a Actor) IsAdmin() bool    { return a.Role == RoleAdmin }
func (a Actor) IsProvider() bool { return a.Role == RoleProvider }
