package auth

import (
	"context"

	"inkwell/domain"
)

const (
	userKey privateKey = "user"
)

type privateKey string

// SetUser puts the resolved viewer into the request context.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser returns the viewer from the context, or nil for an anonymous
// request.
func GetUser(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
