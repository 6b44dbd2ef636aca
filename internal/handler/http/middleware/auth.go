package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alimalikali/payrollx-server/internal/domain/auth"
	"github.com/alimalikali/payrollx-server/internal/handler/http/response"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired accepts only verified access tokens that name a user. The
// user ID is attached to the request log line.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}
			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if tokenType, ok := claims["type"].(string); !ok || tokenType != "access" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			isAdmin, _ := claims["is_admin"].(bool)
			httplog.SetAttrs(r.Context(), slog.String("user.id", userID), slog.Bool("user.admin", isAdmin))

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
