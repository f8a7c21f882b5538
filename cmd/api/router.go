package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/cityportal/backend/internal/auth"
	"github.com/cityportal/backend/internal/config"
	"github.com/cityportal/backend/internal/files"
	"github.com/cityportal/backend/internal/listing"
	appMiddleware "github.com/cityportal/backend/internal/middleware"
	"github.com/cityportal/backend/internal/user"
)

type handlers struct {
	auth    *auth.Handler
	user    *user.Handler
	listing *listing.Handler
	files   *files.Handler
}

func newRouter(cfg *config.Config, log zerolog.Logger, h handlers) chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if !cfg.IsProduction() {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	requireAuth := appMiddleware.RequireAuth(cfg.JWTSecret)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.auth.Register)
			r.Post("/login", h.auth.Login)
			r.Post("/logout", h.auth.Logout)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", h.user.GetMe)
				r.Post("/upload/avatar", h.user.UploadAvatar)
			})
		})

		r.Route("/listings", func(r chi.Router) {
			r.Get("/{id}", h.listing.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", h.listing.Create)
				r.Post("/upload-image", h.listing.UploadImage)
			})
		})

		r.Route("/files", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/private", h.files.UploadPrivate)
			r.Get("/signed-url", h.files.SignedURL)
			r.Delete("/", h.files.Delete)
		})
	})

	return r
}
