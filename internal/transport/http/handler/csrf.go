package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
)

const csrfCookieName = "csrf_token"

// CSRFHandler issues double-submit CSRF tokens: the same random value goes out
// as a cookie and in the body, and the frontend echoes it back in a header.
type CSRFHandler struct {
	secureCookie bool
}

func NewCSRFHandler(secureCookie bool) *CSRFHandler {
	return &CSRFHandler{secureCookie: secureCookie}
}

func (h *CSRFHandler) Token(w http.ResponseWriter, r *http.Request) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	token := hex.EncodeToString(buf)

	// Not httpOnly: the frontend must read it to echo it back.
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}
