// Package auth provides the boundary with the external authentication
// layer. A reverse proxy in front of this server authenticates users and
// forwards the username in a trusted header; nothing here re-verifies it.
package auth

import (
	"net/http"

	"github.com/balain/bkmrkr/internal/auth/context/usercontext"
)

type UserMiddleware struct {
	// Header names the request header holding the authenticated username.
	Header string
}

func (umw UserMiddleware) SetUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := r.Header.Get(umw.Header)
		if username == "" {
			next.ServeHTTP(w, r)
			return
		}
		ctx := usercontext.WithUser(r.Context(), username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (umw UserMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if usercontext.User(r.Context()) == "" {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
