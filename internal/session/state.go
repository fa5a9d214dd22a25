// Package session resolves bearer tokens to an identity and a role and
// tracks how that resolution changes with auth events.
package session

import "tailorpreview/internal/domain"

type Status string

const (
	StatusLoading         Status = "loading"
	StatusUnauthenticated Status = "unauthenticated"
	StatusAuthenticated   Status = "authenticated"
)

// Surface is the top-level view a state maps to.
type Surface string

const (
	SurfaceLoading Surface = "loading"
	SurfaceLogin   Surface = "login"
	SurfaceAdmin   Surface = "admin"
	SurfaceShop    Surface = "shop"
)

// State is the resolved session. Role and Identity are set only when
// Status is StatusAuthenticated.
type State struct {
	Status   Status           `json:"status"`
	Role     domain.Role      `json:"role,omitempty"`
	Identity *domain.Identity `json:"user,omitempty"`
}

func Loading() State { return State{Status: StatusLoading} }

func Unauthenticated() State { return State{Status: StatusUnauthenticated} }

func Authenticated(identity domain.Identity, role domain.Role) State {
	return State{Status: StatusAuthenticated, Role: role, Identity: &identity}
}

func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}

// Surface maps the state to exactly one surface. An authenticated state with
// any role other than admin gets the shop surface.
func (s State) Surface() Surface {
	switch s.Status {
	case StatusLoading:
		return SurfaceLoading
	case StatusAuthenticated:
		if s.Role == domain.RoleAdmin {
			return SurfaceAdmin
		}
		return SurfaceShop
	default:
		return SurfaceLogin
	}
}

// UserID is empty unless authenticated.
func (s State) UserID() string {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.UserID
}
