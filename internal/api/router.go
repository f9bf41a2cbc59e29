package api

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/edvass/notevault/internal/api/handlers"
	"github.com/edvass/notevault/internal/auth"
	"github.com/edvass/notevault/internal/monitoring"
	"github.com/edvass/notevault/internal/services"
	"github.com/edvass/notevault/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	authService services.AuthServiceProvider,
	userService services.UserServiceProvider,
	noteService services.NoteServiceProvider,
	eventService services.EventServiceProvider,
	backupService services.BackupServiceProvider,
	statUpdater *monitoring.StatUpdater,
	tokenTTL time.Duration,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration for development
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"}, // Adjust for your frontend URL
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userService, tokenTTL)
	noteHandler := handlers.NewNoteHandler(noteService)
	eventHandler := handlers.NewEventHandler(eventService)
	backupHandler := handlers.NewBackupHandler(backupService)
	systemHandler := handlers.NewSystemHandler(statUpdater)
	wsHandler := handlers.NewWebSocketHandler(hub)

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// WebSocket connection endpoint; does its own token check because
		// browsers can't set the Authorization header on upgrade requests.
		r.Get("/ws", wsHandler.Serve)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(auth.JWTMiddleware())
				r.Get("/me", authHandler.GetMe)
			})
		})

		// Everything below requires a session.
		r.Group(func(r chi.Router) {
			r.Use(auth.JWTMiddleware())

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", noteHandler.GetAll)
				r.Post("/", noteHandler.Create)
				r.Delete("/{id}", noteHandler.Delete)
			})

			r.Get("/events", eventHandler.GetRecent)

			r.Route("/backups", func(r chi.Router) {
				r.Get("/", backupHandler.GetAll)
				r.Post("/", backupHandler.Create)
			})

			r.Get("/system", systemHandler.Get)
		})
	})

	return r
}
