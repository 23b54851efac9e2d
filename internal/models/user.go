package models

// Role distinguishes the two kinds of session a context can hold.
type Role string

const (
	RoleCitizen Role = "citizen"
	RoleAdmin   Role = "admin"
)

// UserSession is the record stored under the citizen session key.
type UserSession struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// AdminSession is the record stored under the admin session key.
type AdminSession struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}
