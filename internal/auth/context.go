package auth

import (
	"context"

	"github.com/google/uuid"
)

// UserContext holds the authenticated user for the current request
type UserContext struct {
	UserID uuid.UUID
	Email  string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds the user context to the request context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts the user context, if any
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

// MustFromContext extracts the user context or panics. Only call behind the
// Authenticate middleware.
func MustFromContext(ctx context.Context) *UserContext {
	user, ok := FromContext(ctx)
	if !ok {
		panic("user context not found in context")
	}
	return user
}
