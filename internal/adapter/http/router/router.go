package router

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/handler"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Profiles  *handler.ProfileHandler
	Listings  *handler.ListingHandler
	Favorites *handler.FavoriteHandler
	Images    *handler.ImageHandler
}

type Options struct {
	ServiceName   string
	Authenticator middleware.Authenticator
	AuthLimiter   *middleware.RateLimiter
	Metrics       *metrics.MetricsManager
	Logger        *logger.Logger
}

func New(h Handlers, opts Options) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Tracing(opts.ServiceName + "/http"))
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", handler.Health)

	r.Group(func(r chi.Router) {
		if opts.AuthLimiter != nil {
			r.Use(opts.AuthLimiter.Limit)
		}
		r.Post("/api/auth/register", h.Auth.Register)
		r.Post("/api/auth/login", h.Auth.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(opts.Authenticator, opts.Logger))

		r.Post("/api/auth/logout", h.Auth.Logout)
		r.Delete("/api/auth/account", h.Auth.DeleteAccount)

		r.Get("/api/me", h.Profiles.GetMe)
		r.Patch("/api/me", h.Profiles.UpdateMe)
		r.Get("/api/me/listings", h.Listings.Mine)

		r.Route("/api/listings", func(r chi.Router) {
			r.Get("/", h.Listings.Browse)
			r.Post("/", h.Listings.Create)
			r.Get("/{id}", h.Listings.Get)
			r.Put("/{id}", h.Listings.Update)
			r.Delete("/{id}", h.Listings.Delete)
		})

		r.Post("/api/images", h.Images.Upload)

		r.Get("/api/favorites", h.Favorites.List)
		r.Post("/api/favorites", h.Favorites.Add)
		r.Delete("/api/favorites/{listingID}", h.Favorites.Remove)

		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/listings/pending", h.Listings.Pending)
			r.Post("/listings/{id}/approve", h.Listings.Approve)
			r.Post("/listings/{id}/reject", h.Listings.Reject)

			r.Get("/users", h.Profiles.ListUsers)
			r.Put("/users/{id}/role", h.Profiles.SetRole)
			r.Delete("/users/{id}", h.Profiles.DeleteUser)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"route not found"}` + "\n"))
	})
	return r
}
