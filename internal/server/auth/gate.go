package auth

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/logging"
)

// Verifier checks an access token.
type Verifier interface {
	Verify(token string) (Identity, error)
}

// Gate annotates every request with an AuthContext. It never rejects: a
// missing, malformed, expired or forged token leaves the request anonymous.
func Gate(v Verifier, log logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ac := Anonymous

			if token := tokenFromHeader(r.Header.Get(common.AuthorizationHeader)); token != "" {
				id, err := v.Verify(token)
				if err != nil {
					log.Debug(ctx, "token rejected", "error", err)
				} else {
					ac = AuthContext{Authenticated: true, UserID: id.UserID, Email: id.Email}
				}
			}

			next.ServeHTTP(w, r.WithContext(WithAuthContext(ctx, ac)))
		})
	}
}

// tokenFromHeader accepts both a raw token and "Bearer <token>".
func tokenFromHeader(h string) string {
	h = strings.TrimSpace(h)
	if len(h) >= len(common.BearerPrefix) && strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
		h = strings.TrimSpace(h[len(common.BearerPrefix):])
	}
	return h
}
