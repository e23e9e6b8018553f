package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/isdelr/devconnector-be/internal/api/handlers"
	"github.com/isdelr/devconnector-be/internal/auth"
	"github.com/isdelr/devconnector-be/internal/services"
	"github.com/isdelr/devconnector-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	authService services.AuthServiceProvider,
	eventService services.EventServiceProvider,
	hub *websocket.Hub,
	tokens *auth.TokenIssuer,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/healthz"))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(authService)
	authHandler := handlers.NewAuthHandler(authService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub, allowedOrigins)

	requireToken := tokens.Middleware()

	r.Route("/api", func(r chi.Router) {
		r.Post("/users", userHandler.Register)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/", authHandler.Login)
			r.With(requireToken).Get("/", authHandler.GetMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(requireToken)
			r.Get("/events", eventHandler.GetRecent)
		})

		r.With(tokens.WebSocketMiddleware()).Get("/events/ws", wsHandler.Serve)
	})

	return r
}
