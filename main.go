package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/notes-be/internal/api"
	"github.com/isdelr/notes-be/internal/auth"
	"github.com/isdelr/notes-be/internal/config"
	"github.com/isdelr/notes-be/internal/database"
	"github.com/isdelr/notes-be/internal/logger"
	"github.com/isdelr/notes-be/internal/monitoring"
	"github.com/isdelr/notes-be/internal/services"
	"github.com/isdelr/notes-be/internal/store"
	"github.com/isdelr/notes-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

const maintenanceTimeout = time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := logger.Init(cfg.LogLevel, !cfg.IsProduction()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logger")
	}

	dialect, err := database.ParseDialect(cfg.DatabaseDriver)
	if err != nil {
		log.Fatal().Err(err).Msg("Unsupported database driver")
	}

	// Set up database
	ctx := context.Background()
	db, err := database.Open(ctx, dialect, cfg.DataSource())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, dialect); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Credentials
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	issuer, err := auth.NewJWTIssuer(auth.IssuerConfig{
		Secret:  cfg.JWTSecret,
		Issuer:  cfg.CredentialIssuer,
		Subject: cfg.CredentialSubject,
		TTL:     cfg.CredentialTTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize credential issuer")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up stores and services
	users := store.NewUserStore(db, dialect, cfg.StoreTimeout)
	notes := store.NewNoteStore(db, dialect, cfg.StoreTimeout)
	userService := services.NewUserService(users, hasher, issuer)
	noteService := services.NewNoteService(notes, hub)
	resolver := auth.NewResolver(issuer, users)

	// Set up and run the background maintenance scheduler
	var scheduler *monitoring.Scheduler
	if cfg.MaintenanceSchedule != "" {
		scheduler, err = monitoring.NewScheduler(cfg.MaintenanceSchedule, database.NewMaintenance(db, dialect), maintenanceTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize maintenance scheduler")
		}
		scheduler.Run()
	}

	// Set up router
	router := api.NewRouter(api.Options{AllowedOrigins: cfg.AllowedOrigins, Store: db}, hub, resolver, userService, noteService)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("driver", string(dialect)).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	hub.Stop()

	log.Info().Msg("Server exiting")
}
