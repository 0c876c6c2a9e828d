package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Actor, error)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// Auth resolves the bearer token into an Actor stored on the request context.
func Auth(authn Authenticator, log *logger.Logger) func(http.Handler) http.Handler {
	log = log.Named("AuthMiddleware")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				response.Error(w, domain.ErrNoCurrentUser)
				return
			}
			actor, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				log.Warn("Request authentication failed", zap.String("path", r.URL.Path), zap.Error(err))
				response.Error(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// RequireAdmin must run after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok {
			response.Error(w, domain.ErrNoCurrentUser)
			return
		}
		if !actor.IsAdmin() {
			response.Error(w, fmt.Errorf("%w: admin role required", domain.ErrForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}
