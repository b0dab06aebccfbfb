package auth

import (
	"context"
	"net/http"
	"strings"
)

// Account is the identity bound to a request or command.
type Account struct {
	Identifier string
}

type accountKey struct{}

// WithAccount returns a copy of ctx carrying acc.
func WithAccount(ctx context.Context, acc Account) context.Context {
	return context.WithValue(ctx, accountKey{}, acc)
}

// AccountFromContext returns the account bound to ctx, if any.
func AccountFromContext(ctx context.Context) (Account, bool) {
	if ctx == nil {
		return Account{}, false
	}
	acc, ok := ctx.Value(accountKey{}).(Account)
	return acc, ok
}

// ContextResolver reads the account identifier from the context. It
// satisfies the monitoring identity resolver contract.
type ContextResolver struct{}

// Username returns the bound account identifier, or "" without a session.
func (ContextResolver) Username(ctx context.Context) (string, error) {
	acc, ok := AccountFromContext(ctx)
	if !ok {
		return "", nil
	}
	return acc.Identifier, nil
}

// Extractor finds the account of an inbound request.
type Extractor func(r *http.Request) (Account, bool)

// HeaderExtractor reads the account identifier from the named header.
func HeaderExtractor(name string) Extractor {
	return func(r *http.Request) (Account, bool) {
		id := strings.TrimSpace(r.Header.Get(name))
		if id == "" {
			return Account{}, false
		}
		return Account{Identifier: id}, true
	}
}

// Middleware binds the extracted account to the request context.
func Middleware(extract Extractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if acc, ok := extract(r); ok {
				r = r.WithContext(WithAccount(r.Context(), acc))
			}
			next.ServeHTTP(w, r)
		})
	}
}
