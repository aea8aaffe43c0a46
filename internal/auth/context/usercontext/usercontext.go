// Package usercontext carries the authenticated principal through the
// request context. Authentication itself happens upstream: this code trusts
// whatever username the auth middleware attached.
package usercontext

import "context"

type key string

const userKey key = "userKey"

func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, userKey, username)
}

// User returns the authenticated username, or "" when none was set.
func User(ctx context.Context) string {
	val := ctx.Value(userKey)
	username, ok := val.(string)
	if !ok {
		// Most likely user context was not set
		return ""
	}
	return username
}
