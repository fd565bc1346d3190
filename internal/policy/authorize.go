package policy

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Authorize checks the request's bearer token against the configured
// control token. An empty configured token disables the check.
func Authorize(r *http.Request, token string) bool {
	if token == "" {
		return true
	}
	auth := r.Header.Get("Authorization")
	presented, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(token)) == 1
}
