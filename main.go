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

	"github.com/isdelr/devconnector-be/internal/api"
	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/config"
	"github.com/isdelr/devconnector-be/internal/database"
	"github.com/isdelr/devconnector-be/internal/logger"
	"github.com/isdelr/devconnector-be/internal/monitoring"
	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/isdelr/devconnector-be/internal/store"
	"github.com/isdelr/devconnector-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.IsProduction())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Set up database; it always holds the audit events
	db, err := database.New(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up the user store
	var users store.UserStore
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := store.ConnectMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer client.Disconnect(context.Background())

		users, err = store.NewMongoUserStore(ctx, client.Database(cfg.MongoDatabase))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize MongoDB user store")
		}
	default:
		users = store.NewSQLiteUserStore(db)
	}
	log.Info().Str("driver", cfg.StoreDriver).Msg("User store ready")

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Set up services
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	eventService := services.NewEventService(db, hub)
	authService := services.NewAuthService(users, auth.NewHasher(cfg.BcryptCost), tokens, eventService)

	// Set up and run the background scheduler
	scheduler, err := monitoring.NewScheduler(eventService, cfg.EventPruneCron, cfg.EventRetention)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize scheduler")
	}
	scheduler.Run()

	// Set up router
	router := api.NewRouter(authService, eventService, hub, tokens, cfg.CORSAllowedOrigins)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("ListenAndServe failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("Server exiting")
}
