package auth

import (
	"encoding/json"
	"net/http"
)

// HeaderName carries the shared-secret token on every non-preflight request.
const HeaderName = "X-Auth-Token"

const invalidTokenMsg = "Missing or invalid X-Auth-Token"

// TokenGate rejects requests whose X-Auth-Token does not match the configured token.
type TokenGate struct {
	token string
}

func NewTokenGate(token string) *TokenGate {
	return &TokenGate{token: token}
}

// Authenticate must sit behind the CORS preamble so OPTIONS never reaches it.
func (g *TokenGate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(HeaderName)
		if got == "" || !TokensEqual(got, g.token) {
			writeError(w, http.StatusUnauthorized, invalidTokenMsg)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := json.Marshal(map[string]any{"ok": false, "error": msg})
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}
