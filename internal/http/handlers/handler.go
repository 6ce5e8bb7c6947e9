package handlers

import (
	"battle_arena/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB         *pgxpool.Pool
	PlayerRepo *repository.PlayerRepository
	MatchRepo  *repository.MatchRepository
}

// NewHandler wires the HTTP surface. db may be nil; endpoints that need
// persistence then answer with defaults or 503.
func NewHandler(db *pgxpool.Pool) *Handler {
	h := &Handler{DB: db}
	if db != nil {
		h.PlayerRepo = repository.NewPlayerRepository(db)
		h.MatchRepo = repository.NewMatchRepository(db)
	}
	return h
}

// getUserID extracts user_id from the Gin context set by the JWT middleware.
func getUserID(c interface{ Get(string) (any, bool) }) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
