//	@title			City Portal API
//	@version		1.0
//	@description	Backend for the city portal marketplace: accounts, listings and file storage.
//
//	@host		localhost:3001
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						auth_token
//	@description				Session JWT set by POST /auth/login.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cityportal/backend/internal/auth"
	"github.com/cityportal/backend/internal/config"
	"github.com/cityportal/backend/internal/db"
	"github.com/cityportal/backend/internal/files"
	"github.com/cityportal/backend/internal/listing"
	"github.com/cityportal/backend/internal/logger"
	"github.com/cityportal/backend/internal/storage"
	"github.com/cityportal/backend/internal/upload"
	"github.com/cityportal/backend/internal/user"

	_ "github.com/cityportal/backend/docs/swagger"
)

func main() {
	cfg, envLoaded := config.Load()
	log := logger.New(cfg.LogLevel, cfg.IsProduction())
	if !envLoaded {
		log.Debug().Msg("no .env file, using process environment")
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL, log); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	store, err := storage.NewMinioStorage(cfg.Storage(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage init failed")
	}
	if cfg.ObjectStoreEnsureBucket {
		if err := store.EnsureBucket(ctx); err != nil {
			log.Fatal().Err(err).Str("bucket", store.Bucket()).Msg("object storage bucket bootstrap failed")
		}
	}

	// Wire dependencies: repository → service → handler
	fileSvc := upload.NewFiles(store, log)

	userRepo := user.NewRepository(pool)
	userSvc := user.NewService(userRepo, fileSvc, log)

	authSvc := auth.NewService(userSvc, cfg.JWTSecret, log)

	listingRepo := listing.NewRepository(pool)
	listingSvc := listing.NewService(listingRepo, fileSvc, log)

	r := newRouter(cfg, log, handlers{
		auth:    auth.NewHandler(authSvc, cfg.IsProduction()),
		user:    user.NewHandler(userSvc, cfg.MaxUploadBytes),
		listing: listing.NewHandler(listingSvc, cfg.MaxUploadBytes),
		files:   files.NewHandler(fileSvc, cfg.MaxUploadBytes),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server listening")
		if !cfg.IsProduction() {
			log.Info().Msgf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-quit
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		return
	}

	log.Info().Msg("server stopped")
}
