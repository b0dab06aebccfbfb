package monitoring

import (
	"context"
	"errors"
)

// ErrIdentityUnavailable is returned by resolvers when the security context
// cannot be queried at all.
var ErrIdentityUnavailable = errors.New("security context unavailable")

// IdentityResolver looks up the account bound to the current request or
// command. It returns "" and a nil error when no session is active.
type IdentityResolver interface {
	Username(ctx context.Context) (string, error)
}

// IdentityResolverFunc adapts a function to IdentityResolver.
type IdentityResolverFunc func(ctx context.Context) (string, error)

func (f IdentityResolverFunc) Username(ctx context.Context) (string, error) { return f(ctx) }

// NoIdentity never finds a session. CLI commands use it.
type NoIdentity struct{}

func (NoIdentity) Username(context.Context) (string, error) { return "", nil }
