// Package authctx carries the signed-in user through request contexts.
package authctx

import (
	"context"
)

type ctxKey string

const userKey ctxKey = "authUser"

// User is the identity resolved from a verified ID token.
type User struct {
	UID      string         `json:"uid"`
	Email    string         `json:"email,omitempty"`
	Provider string         `json:"provider,omitempty"`
	Claims   map[string]any `json:"claims,omitempty"`
}

func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	return HasRole(u.Claims, role)
}

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// UserFrom returns the signed-in user, if any.
func UserFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey).(*User)
	return u, ok && u != nil && u.UID != ""
}

// HasRole checks the custom claim shapes we accept: a "role" string, a
// "roles" map or array, or a boolean claim named after the role.
func HasRole(claims map[string]any, role string) bool {
	if claims == nil || role == "" {
		return false
	}
	if r, ok := claims["role"].(string); ok && r == role {
		return true
	}
	if flag, ok := claims[role].(bool); ok && flag {
		return true
	}
	switch roles := claims["roles"].(type) {
	case map[string]any:
		if b, ok := roles[role].(bool); ok && b {
			return true
		}
	case []any:
		for _, r := range roles {
			if s, ok := r.(string); ok && s == role {
				return true
			}
		}
	case []string:
		for _, s := range roles {
			if s == role {
				return true
			}
		}
	}
	return false
}
