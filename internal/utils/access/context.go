package access

import (
	"context"

	"employee_roster/internal/domain"
)

type identityContextKey struct{}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// FromContext returns the caller's identity, Anonymous when none was attached.
func FromContext(ctx context.Context) domain.Identity {
	if identity, ok := ctx.Value(identityContextKey{}).(domain.Identity); ok && identity != nil {
		return identity
	}
	return domain.Anonymous{}
}

// Subject is a stable key for the caller: the account id or "anonymous".
func Subject(identity domain.Identity) string {
	if id, ok := identity.(domain.Authenticated); ok {
		return id.Claims.AccountID
	}
	return "anonymous"
}
