package domain

import (
	"strings"
	"time"
)

// Role is the flat access role stored on a profile.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleShop  Role = "shop"
)

// ParseRole accepts only the two known roles.
func ParseRole(v string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(v))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleShop:
		return RoleShop, true
	}
	return "", false
}

// Identity is the read-only view of an authenticated user carried by a token.
type Identity struct {
	UserID    string    `json:"id"`
	Email     string    `json:"email,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Session couples the raw bearer token with the identity it encodes.
type Session struct {
	Token        string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	Identity     Identity `json:"user"`
}

// Profile is a row of the profiles table.
type Profile struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	ShopName  string    `json:"shop_name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileCounts summarizes a profile listing for the admin dashboard.
type ProfileCounts struct {
	Total int `json:"total"`
	Shop  int `json:"shop"`
	Admin int `json:"admin"`
}

// CountProfiles tallies profiles by role. Unknown roles count as shop.
func CountProfiles(profiles []Profile) ProfileCounts {
	counts := ProfileCounts{Total: len(profiles)}
	for _, p := range profiles {
		if p.Role == RoleAdmin {
			counts.Admin++
			continue
		}
		counts.Shop++
	}
	return counts
}
