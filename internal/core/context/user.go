// Package appcontext provides typed accessors for request-scoped values.
package appcontext

import (
	"context"

	"ironstock/internal/core/id"
)

type contextKey string

const (
	userIDKey   contextKey = "user_id"
	usernameKey contextKey = "username"
	rolesKey    contextKey = "roles"
)

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, userID id.ID, username string, roles []string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, usernameKey, username)
	ctx = context.WithValue(ctx, rolesKey, roles)
	return ctx
}

// UserID returns the authenticated user's ID, or Nil when absent.
func UserID(ctx context.Context) id.ID {
	if v, ok := ctx.Value(userIDKey).(id.ID); ok {
		return v
	}
	return id.Nil()
}

// Username returns the authenticated user's name, or "" when absent.
func Username(ctx context.Context) string {
	if v, ok := ctx.Value(usernameKey).(string); ok {
		return v
	}
	return ""
}

// Roles returns the authenticated user's roles.
func Roles(ctx context.Context) []string {
	if v, ok := ctx.Value(rolesKey).([]string); ok {
		return v
	}
	return nil
}

// HasRole reports whether the context user carries the given role.
func HasRole(ctx context.Context, role string) bool {
	for _, r := range Roles(ctx) {
		if r == role {
			return true
		}
	}
	return false
}
