package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/models"
)

type contextKey string

const (
	accountIDKey   contextKey = "accountID"
	accountRoleKey contextKey = "accountRole"
)

// authenticate extracts the bearer access token, verifies it and stores the
// caller's identity in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(w, http.StatusUnauthorized, "authorization token required")
			return
		}

		claims, err := s.issuer.Verify(token, auth.UseAccess)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, claims.Subject)
		ctx = context.WithValue(ctx, accountRoleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// adminOnly guards the account-management routes.
func (s *Server) adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(accountRoleKey).(string)
		if !ok || role != models.RoleAdmin {
			respondError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AccountIDFromContext returns the authenticated caller's account id.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok
}
