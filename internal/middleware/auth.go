package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"

	"taobao-orders/backend/internal/authctx"
)

type AuthUser = authctx.User

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(h[len("Bearer "):])
	return tok, tok != ""
}

// WithAuth rejects requests without a valid, unrevoked Firebase ID token
// and puts the user on the request context.
func WithAuth(v TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			idToken, ok := BearerToken(r)
			if !ok {
				writeError(w, http.StatusUnauthorized, "missing Authorization: Bearer <token>")
				return
			}

			tok, err := v.VerifyIDTokenAndCheckRevoked(r.Context(), idToken)
			if err != nil {
				log.Ctx(r.Context()).Debug().Err(err).Msg("token rejected")
				msg := "invalid token"
				if auth.IsIDTokenRevoked(err) {
					msg = "token revoked"
				}
				writeError(w, http.StatusUnauthorized, msg)
				return
			}

			au := &AuthUser{
				UID:      tok.UID,
				Provider: tok.Firebase.SignInProvider,
				Claims:   tok.Claims,
			}
			if v, ok := tok.Claims["email"].(string); ok {
				au.Email = v
			}

			next.ServeHTTP(w, r.WithContext(authctx.WithUser(r.Context(), au)))
		})
	}
}

func GetAuthUser(ctx context.Context) (*AuthUser, bool) {
	return authctx.UserFrom(ctx)
}

// RequireRole allows only users holding role. An empty role allows everyone.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if role == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			au, ok := GetAuthUser(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !au.HasRole(role) {
				writeError(w, http.StatusForbidden, "role "+role+" required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError matches the {"message": ...} body of the http package.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
