package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	"golinks/pkg/token"
)

type callerKey struct{}

// callerID returns the authenticated caller identity placed in the context by
// requireAuth, or "" when the request was not authenticated.
func callerID(ctx context.Context) string {
	caller, _ := ctx.Value(callerKey{}).(string)
	return caller
}

// requireAuth validates the Authorization bearer token and stores its subject
// in the request context as the caller identity.
func requireAuth(tokens *token.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, unauthenticatedResponse)
				return
			}

			scheme, rawToken, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, unauthenticatedResponse)
				return
			}

			claims, err := tokens.Validate(rawToken)
			if err != nil {
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, unauthenticatedResponse)
				return
			}

			ctx := context.WithValue(r.Context(), callerKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
