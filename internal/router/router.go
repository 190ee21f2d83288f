package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stagepass/internal/config"
	"stagepass/internal/handler"
	"stagepass/internal/middleware"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Account *handler.AccountHandler
	Artist  *handler.ArtistHandler
}

type HealthChecker interface {
	Health(ctx context.Context) error
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, db HealthChecker) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Health(req.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/signup", h.Auth.Signup)
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth).Post("/logout", h.Auth.Logout)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
		})

		api.Route("/users", func(users chi.Router) {
			users.Use(authMiddleware.RequireAuth)
			users.Put("/me", h.Account.UpdateProfile)
			users.Put("/me/password", h.Account.UpdatePassword)
			users.Put("/me/email", h.Account.ChangeEmail)
			users.Delete("/me", h.Account.DeleteAccount)
		})

		api.Route("/artists", func(artists chi.Router) {
			artists.Use(authMiddleware.RequireAuth)
			artists.Get("/me", h.Artist.Profile)
			artists.Post("/become", h.Artist.Become)
			artists.Post("/revert", h.Artist.Revert)
			artists.Post("/shows", h.Artist.CreateShow)
		})
	})

	return r
}
