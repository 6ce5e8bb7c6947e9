package repository

import (
	"context"

	"battle_arena/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// Create stores one participant's record of a finished match.
func (r *MatchRepository) Create(ctx context.Context, m *domain.MatchRecord) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO match_history
			(game_id, user_id, opponent_id, result, rating_delta, reason)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		m.GameID,
		m.UserID,
		m.OpponentID,
		m.Result,
		m.RatingDelta,
		m.Reason,
	).Scan(&m.ID, &m.CreatedAt)
}

// GetByUser returns the player's most recent matches.
func (r *MatchRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*domain.MatchRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, game_id, user_id, opponent_id, result, rating_delta, reason, created_at
		 FROM match_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.MatchRecord
	for rows.Next() {
		var m domain.MatchRecord
		if err := rows.Scan(
			&m.ID, &m.GameID, &m.UserID, &m.OpponentID,
			&m.Result, &m.RatingDelta, &m.Reason, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, &m)
	}

	return result, rows.Err()
}

// StatsByUser aggregates a player's match history.
type UserStats struct {
	UserID     int64 `json:"user_id"`
	TotalGames int   `json:"total_games"`
	Wins       int   `json:"wins"`
	Losses     int   `json:"losses"`
}

func (r *MatchRepository) StatsByUser(ctx context.Context, userID int64) (*UserStats, error) {
	stats := &UserStats{UserID: userID}

	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*) as total_games,
			COUNT(*) FILTER (WHERE result = 'win') as wins,
			COUNT(*) FILTER (WHERE result = 'lose') as losses
		 FROM match_history
		 WHERE user_id = $1`,
		userID,
	).Scan(&stats.TotalGames, &stats.Wins, &stats.Losses)

	if err != nil {
		return nil, err
	}
	return stats, nil
}
