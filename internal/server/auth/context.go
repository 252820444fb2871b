// Package auth issues and verifies access tokens, hashes passwords and
// carries the per-request authentication state.
package auth

import "context"

type ctxKey struct{}

// AuthContext is the per-request authentication state set by Gate.
// Authenticated implies a token passed verification in this request.
type AuthContext struct {
	Authenticated bool
	UserID        string
	Email         string
}

// Anonymous is the state of a request without valid credentials.
var Anonymous = AuthContext{}

// WithAuthContext returns a copy of ctx carrying ac.
func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, ac)
}

// FromContext returns the state stored in ctx, or Anonymous.
func FromContext(ctx context.Context) AuthContext {
	ac, ok := ctx.Value(ctxKey{}).(AuthContext)
	if !ok {
		return Anonymous
	}
	return ac
}
