package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edvass/notevault/internal/api"
	"github.com/edvass/notevault/internal/auth"
	"github.com/edvass/notevault/internal/config"
	"github.com/edvass/notevault/internal/database"
	"github.com/edvass/notevault/internal/logger"
	"github.com/edvass/notevault/internal/monitoring"
	"github.com/edvass/notevault/internal/services"
	"github.com/edvass/notevault/internal/websocket"
)

func main() {
	logger.Init()

	if !auth.SecretConfigured() {
		log.Warn().Msg("JWT_SECRET is not set; session tokens are signed with an empty key")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database. A broken schema makes the whole process useless,
	// so either failure aborts startup.
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	tokenTTL := time.Duration(cfg.TokenTTLHours) * time.Hour
	userService := services.NewUserService(db, cfg.BcryptCost)
	eventService := services.NewEventService(db)
	authService := services.NewAuthService(userService, eventService, tokenTTL)
	noteService := services.NewNoteService(db, eventService, hub)
	backupService := services.NewBackupService(db, eventService, cfg.BackupPath)

	// Set up and run the background stats updater
	statUpdater := monitoring.NewStatUpdater(db, hub)
	go statUpdater.Run()

	// Set up and run the backup scheduler
	scheduler := monitoring.NewScheduler(backupService, eventService, cfg.BackupSchedule, cfg.BackupKeep)
	go scheduler.Run()

	// Set up router
	router := api.NewRouter(hub, authService, userService, noteService, eventService, backupService, statUpdater, tokenTTL)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	statUpdater.Stop()
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
