package identity

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleGuest    Role = "guest"
	RoleUser     Role = "user"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleGuest, RoleUser, RoleProvider, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %s", s)
	}
}

// SelectedRole is the acting role a signed-in person picked in the storefront.
// It steers navigation only and never grants capabilities.
type SelectedRole string

const (
	SelectedNone     SelectedRole = ""
	SelectedBooker   SelectedRole = "booker"
	SelectedProvider SelectedRole = "provider"
)

func ParseSelectedRole(s string) (SelectedRole, error) {
	switch SelectedRole(s) {
	case SelectedNone, SelectedBooker, SelectedProvider:
		return SelectedRole(s), nil
	default:
		return "", fmt.Errorf("unknown selected role: %s", s)
	}
}

type Identity struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session is what a request knows about its caller. A nil Identity means
// nobody is signed in.
type Session struct {
	Identity *Identity
	Selected SelectedRole
}

func (s Session) Authenticated() bool {
	return s.Identity != nil
}

// EffectiveRole is the role used for navigation: guest when signed out
// (whatever was selected before), else the selected acting role, else the
// stored role.
func (s Session) EffectiveRole() Role {
	if s.Identity == nil {
		return RoleGuest
	}
	switch s.Selected {
	case SelectedBooker:
		return RoleUser
	case SelectedProvider:
		return RoleProvider
	}
	return s.Identity.Role
}
