package auth

import (
	"accounts/internal/core/domain/user"
	"accounts/internal/core/services/auth"
	"context"
	"net/http"
	"strings"
)

const (
	AUTH_SCHEME        = "bearer"
	AUTH_TOKEN_MAX_LEN = 2048
)

// ParseToken extracts the session token from an "Authorization: Bearer <token>" header.
func ParseToken(r *http.Request) (token user.SessionToken, ok bool) {
	header := r.Header.Get("Authorization")
	scheme, value, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, AUTH_SCHEME) {
		return token, false
	}
	value = strings.TrimSpace(value)
	if value == "" || len(value) > AUTH_TOKEN_MAX_LEN {
		return token, false
	}
	return user.SessionToken(value), true
}

func SetAuthTokenToContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := ParseToken(r)
		if ok {
			ctx := context.WithValue(r.Context(), auth.CONTEXT_AUTH_TOKEN_KEY, token)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}
