package appctx

import (
	"context"

	"streambingo/models"
)

type contextKey string

const userContextKey contextKey = "user"

// SetUser stores the authenticated user on the request context.
func SetUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUser returns the authenticated user placed on the context by the auth
// middleware, if any.
func GetUser(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(userContextKey).(*models.User)
	return user, ok
}
