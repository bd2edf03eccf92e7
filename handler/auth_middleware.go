package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"user-management-api/common"
	"user-management-api/model"
	"user-management-api/service"
)

type contextKey string

const IdentityKey contextKey = "identity"

// IdentityResolver turns a bearer credential into a verified identity.
type IdentityResolver interface {
	ResolveIdentity(credential string) (model.Identity, error)
}

// IdentityFromContext returns the identity stored by AuthMiddleware.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey).(model.Identity)
	return identity, ok
}

func unauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	common.NewAppError(http.StatusUnauthorized, message, nil).Send(w)
}

// AuthMiddleware extracts the bearer credential, resolves it and stores the
// resulting identity in the request context.
func AuthMiddleware(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthenticated(w, "Not authenticated")
				return
			}

			headerParts := strings.SplitN(authHeader, " ", 2)
			if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") || strings.TrimSpace(headerParts[1]) == "" {
				unauthenticated(w, "Invalid authorization header format")
				return
			}

			identity, err := resolver.ResolveIdentity(strings.TrimSpace(headerParts[1]))
			if err != nil {
				if errors.Is(err, service.ErrMissingClaims) {
					unauthenticated(w, "Invalid token claims")
					return
				}
				unauthenticated(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles admits only identities whose role is in roles. It must be
// mounted behind AuthMiddleware.
func RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	authorize := service.RequireRole(roles...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				unauthenticated(w, "Not authenticated")
				return
			}

			if _, err := authorize(identity); err != nil {
				common.NewAppError(http.StatusForbidden, "Operation not permitted", nil).Send(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
