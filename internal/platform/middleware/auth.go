package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"cookiegate/internal/transport/http/shared"
	dErrors "cookiegate/pkg/domain-errors"
)

// AdminAuth guards administrative endpoints with a bearer JWT signed by the
// server secret. Tokens must carry role=admin; expiry is enforced by the
// parser.
func AdminAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, dErrors.New(dErrors.CodeUnauthorized, "unexpected signing method")
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
				return
			}
			if role, _ := claims["role"].(string); role != "admin" {
				shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "admin role required"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
