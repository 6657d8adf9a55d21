package middleware

import (
	"context"
	"net/http"
	"strings"

	"placement/internal/common"
	"placement/internal/http/response"
	"placement/internal/security"
)

type contextKey string

const (
	ContextPrincipalKey contextKey = "principal"
	ContextRequestIDKey contextKey = "request_id"
)

type AuthMiddleware struct {
	jwt *security.JWTProvider
}

func NewAuthMiddleware(jwt *security.JWTProvider) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		claims, err := m.jwt.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		principal, err := claims.Principal()
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token claims", err))
			return
		}
		ctx := context.WithValue(r.Context(), ContextPrincipalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireRole(role security.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				response.Error(w, common.NewError(common.CodeUnauthorized, "principal not found", nil))
				return
			}
			if principal.Role != role {
				response.Error(w, common.NewError(common.CodeForbidden, "insufficient role", nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func PrincipalFromContext(ctx context.Context) (security.Principal, bool) {
	principal, ok := ctx.Value(ContextPrincipalKey).(security.Principal)
	return principal, ok
}

// WithPrincipal is used by tests and internal callers that resolve the
// principal themselves.
func WithPrincipal(ctx context.Context, principal security.Principal) context.Context {
	return context.WithValue(ctx, ContextPrincipalKey, principal)
}
