package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/notes-be/internal/api/handlers"
	"github.com/isdelr/notes-be/internal/services"
	"github.com/isdelr/notes-be/internal/websocket"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

// Options configures the router's cross-cutting concerns.
type Options struct {
	AllowedOrigins []string
	Store          handlers.Pinger
}

// NewRouter creates and configures a new Chi router.
func NewRouter(opts Options, hub *websocket.Hub, resolver IdentityResolver, userService services.UserServiceProvider, noteService services.NoteServiceProvider) *chi.Mux {
	r := chi.NewRouter()
	metrics := NewMetrics()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	noteHandler := handlers.NewNoteHandler(noteService)
	healthHandler := handlers.NewHealthHandler(opts.Store)
	wsHandler := handlers.NewWebSocketHandler(hub, opts.AllowedOrigins)

	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	r.Handle("/metrics", metrics.Handler())

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", userHandler.Register)
			r.Post("/login", userHandler.Login)
		})

		// Everything below requires a resolved identity.
		r.Group(func(r chi.Router) {
			r.Use(Authenticate(resolver))

			r.Get("/me", userHandler.GetMe)
			r.Get("/ws", wsHandler.Serve)

			r.Route("/notes", func(r chi.Router) {
				r.Get("/", noteHandler.GetAll)
				r.Post("/", noteHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", noteHandler.Get)
					r.Put("/", noteHandler.Update)
					r.Delete("/", noteHandler.Delete)
				})
			})
		})
	})

	return r
}
