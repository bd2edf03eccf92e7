// file: model/identity.go

package model

// Role is an opaque role tag. Roles have no hierarchy; authorization is an
// exact-match membership test.
type Role string

const (
	RoleAnonymous     Role = "ANONYMOUS"
	RoleAuthenticated Role = "AUTHENTICATED"
	RoleManager       Role = "MANAGER"
	RoleAdmin         Role = "ADMIN"
)

// Identity is the verified caller of a single request. It is only produced by
// successful token resolution and must be treated as read-only.
type Identity struct {
	UserID string
	Role   Role
}
