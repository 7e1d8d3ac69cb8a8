package middleware

import (
	"context"
	"net/http"
	"strings"

	"levelup/internal/domain/identity"
	"levelup/internal/requestctx"
)

type ctxKey string

const ctxKeyUser ctxKey = "user"

// Auth attaches the caller identity when a valid bearer token is present.
// Requests without a token pass through anonymously; RequirePermission
// rejects them at the route.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := identity.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, identity.UserContext{
				UserID:     claims.UserID,
				Role:       claims.Role,
				Department: claims.Department,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (identity.UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(identity.UserContext)
	return user, ok
}

func GetRequestID(ctx context.Context) string {
	return requestctx.GetRequestID(ctx)
}
