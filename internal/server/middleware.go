package server

import (
	"fmt"
	"net/http"
	"strings"
)

// requireAuth verifies the bearer token and stashes the caller's claims in
// the request context.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.tokens.Verify(bearerToken(r))
		if err != nil {
			s.writeErrorReq(w, r, http.StatusUnauthorized, unauthorized(fmt.Errorf("authentication required")))
			return
		}
		next(w, r.WithContext(contextWithClaims(r.Context(), claims)))
	}
}

// requireAdmin gates admin-only routes. Ownership is deliberately not
// re-checked downstream of this gate.
func (s *Server) requireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request) {
		claims, _ := claimsFromContext(r.Context())
		if err := decide(ActionAdminOnly, claims, ""); err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		next(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
