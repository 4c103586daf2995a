// Package auth carries the request's owner id through a context. Identity
// is established upstream; this package only transports it.
package auth

import "context"

type contextKey struct{}

func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, contextKey{}, ownerID)
}

// FromContext returns the owner id and whether one was set.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}

// OwnerID returns the owner id, or "" when none is set.
func OwnerID(ctx context.Context) string {
	id, _ := FromContext(ctx)
	return id
}
