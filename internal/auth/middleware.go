package auth

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/aldiyarbek/quizduel/internal/session"
	httperrors "github.com/aldiyarbek/quizduel/pkg/http/errors"
)

// Middleware validates bearer tokens and injects the session into the
// request context. Requests without an Authorization header pass through
// unauthenticated; RequireAuth gates the protected routes.
func Middleware(authSvc *Service, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid authorization header")
				return
			}

			claims, err := authSvc.ValidateToken(parts[1])
			if err != nil {
				logger.Warn().Err(err).Msg("token validation failed")
				httperrors.RespondUnauthorized(w, httperrors.ErrCodeInvalidToken, "Invalid or expired token")
				return
			}

			sess := &session.Session{
				UserID:   claims.UserID,
				Email:    claims.Email,
				Username: claims.Username,
			}
			next.ServeHTTP(w, r.WithContext(session.IntoContext(r.Context(), sess)))
		})
	}
}

// RequireAuth ensures the request carries a valid session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()) == nil {
			httperrors.RespondUnauthorized(w, httperrors.ErrCodeAuthenticationRequired, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
