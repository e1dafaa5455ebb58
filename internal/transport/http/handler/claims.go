package handler

import (
	"net/http"

	jwtinfra "github.com/tasktrack-api/internal/infrastructure/jwt"
	"github.com/tasktrack-api/internal/transport/http/middleware"
)

// mustClaims pulls the authenticated identity from context, writing a 401 and
// returning ok=false when the middleware didn't run.
func mustClaims(w http.ResponseWriter, r *http.Request) (*jwtinfra.Claims, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return claims, true
}
