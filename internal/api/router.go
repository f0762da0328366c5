package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/salonware/booking-engine/internal/booking"
)

type RouterConfig struct {
	Engine    *booking.Engine
	Admission *booking.Admission
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Env       string
	Version   string
	Logger    *zap.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Availability and booking endpoints
	r.Get("/availability", availabilityHandler(cfg.Engine))
	r.Post("/bookings", createBookingHandler(cfg.Admission))
	r.Get("/bookings/{id}", getBookingHandler(cfg.Admission))
	r.Post("/bookings/{id}/cancel", cancelBookingHandler(cfg.Admission))

	return r
}
