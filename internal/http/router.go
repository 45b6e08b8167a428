package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/unlockgrowth/intake/internal/http/chat"
	"github.com/unlockgrowth/intake/internal/http/session"
)

func New(
	allowedOrigins []string,
	sessionsV1 *session.Handler,
	chatV1 *chat.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/sessions", sessionsV1.Routes)

		r.Route("/chat", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			chatV1.Routes(r)
		})
	})

	return router
}
