package middleware

import (
	"net/http"
	"strings"

	"lovelog-backend/pkg/auth"
	"lovelog-backend/pkg/common"
)

// Authenticate validates the Bearer token on incoming requests and attaches
// the account to the request context. Missing or invalid tokens get a 401.
func Authenticate(tokens *auth.Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				common.RespondMessage(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				common.RespondMessage(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := tokens.ValidateToken(parts[1])
			if err != nil {
				switch err {
				case auth.ErrExpiredToken:
					common.RespondMessage(w, http.StatusUnauthorized, "token has expired")
				default:
					common.RespondMessage(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			ctx := auth.SetUserInContext(r.Context(), &auth.UserContext{
				UserID:   claims.UserID,
				Username: claims.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
