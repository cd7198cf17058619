package middleware

import (
	"net/http"
	"strings"

	"employee_roster/internal/domain"
	"employee_roster/internal/utils/access"

	"go.uber.org/zap"
)

// TokenVerifier decodes a bearer token into claims.
type TokenVerifier interface {
	Verify(tokenString string) (domain.Claims, error)
}

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>" header.
func ExtractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if token == "" {
		return "", false
	}
	return token, true
}

// IdentityMiddleware decodes the bearer token once per request. Any failure
// leaves the request anonymous; operations decide whether that is enough.
func IdentityMiddleware(verifier TokenVerifier, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var identity domain.Identity = domain.Anonymous{}

			if tokenString, ok := ExtractBearerToken(r.Header.Get("Authorization")); ok {
				claims, err := verifier.Verify(tokenString)
				if err != nil {
					log.Debug("Token rejected, continuing anonymously", zap.Error(err))
				} else {
					identity = domain.Authenticated{Claims: claims}
				}
			}

			next.ServeHTTP(w, r.WithContext(access.WithIdentity(r.Context(), identity)))
		})
	}
}
