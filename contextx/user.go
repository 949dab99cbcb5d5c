// Package contextx carries request-scoped values (the request ID attached
// to outgoing API calls and the signed-in user id) through context.Context.
package contextx

import "context"

// WithUser returns a derived context that carries the signed-in user id.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey, userID)
}

// UserFromContext extracts the user id stored in ctx.
// The boolean return value indicates whether a user was present.
func UserFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userKey).(string)
	return id, ok && id != ""
}
