package middleware

import (
	"log/slog"
	"net/http"

	"github.com/alimalikali/payrollx-server/internal/domain/auth"
	"github.com/alimalikali/payrollx-server/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AdminOnly guards run mutations. It must run after AuthRequired.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if isAdmin, ok := claims["is_admin"].(bool); !ok || !isAdmin {
			slog.Warn("payroll mutation rejected",
				"user_id", claims["user_id"],
				"method", r.Method,
				"path", r.URL.Path,
			)
			response.HandleError(w, auth.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
