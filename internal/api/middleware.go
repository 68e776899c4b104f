package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/notes-be/internal/api/handlers"
	"github.com/isdelr/notes-be/internal/auth"
	"github.com/isdelr/notes-be/internal/models"
	"github.com/rs/zerolog/hlog"
)

// IdentityResolver authenticates an Authorization header value.
type IdentityResolver interface {
	Resolve(ctx context.Context, header string) (models.User, error)
}

// Authenticate resolves the caller once per request and stores the user on
// the request context. Unauthenticated requests get a 401.
func Authenticate(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.Resolve(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				handlers.WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
		})
	}
}

// accessLog writes one structured line per request.
func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("req_id", middleware.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("HTTP request")
}
