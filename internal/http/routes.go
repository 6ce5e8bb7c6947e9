package http

import (
	"battle_arena/internal/config"
	"battle_arena/internal/http/handlers"
	"battle_arena/internal/http/middleware"
	"battle_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterRoutes wires the HTTP surface around an already-running hub.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, hub *ws.Hub, cfg *config.Config, version string) {
	h := handlers.NewHandler(db)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))

	// Identity gateway: exchanges an externally verified identity for a JWT
	api.POST("/auth", h.Auth)

	// Match history and leaderboard
	api.GET("/me/matches", middleware.JWT(), h.MyMatches)
	api.GET("/top", h.TopPlayers)

	// WebSocket entry point for matchmaking and combat
	r.GET("/ws", h.WS(hub))
}
