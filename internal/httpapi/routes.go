package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/oriolripoll/typeracer-backend/internal/hub"
	"github.com/oriolripoll/typeracer-backend/internal/ws"
)

func SetupRoutes(h *hub.Hub, logger *zap.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/healthz", Healthz)
	r.Get("/rooms", ListRooms(h, logger))
	r.Get("/ws", ws.Handler(h, logger, allowedOrigins))
	return r
}
