package repository

import (
	"context"

	"battle_arena/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// GetOrCreate returns the player row for an externally verified identity,
// inserting it with the starting rating on first sight. An existing row keeps
// its rating but picks up a changed username.
func (r *PlayerRepository) GetOrCreate(ctx context.Context, id int64, username string) (*domain.Player, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO players (id, username, rating)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
		 RETURNING id, username, rating, wins, losses, created_at`,
		id, username, domain.StartRating,
	)

	var p domain.Player
	if err := row.Scan(&p.ID, &p.Username, &p.Rating, &p.Wins, &p.Losses, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (*domain.Player, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, COALESCE(username, ''), rating, wins, losses, created_at
		 FROM players
		 WHERE id = $1`,
		id,
	)

	var p domain.Player
	if err := row.Scan(&p.ID, &p.Username, &p.Rating, &p.Wins, &p.Losses, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyResult moves the player's rating by delta and bumps the win or loss
// counter. Rating never drops below zero.
func (r *PlayerRepository) ApplyResult(ctx context.Context, id int64, delta int, won bool) error {
	winInc, lossInc := 0, 1
	if won {
		winInc, lossInc = 1, 0
	}

	_, err := r.db.Exec(ctx,
		`UPDATE players
		 SET rating = GREATEST(0, rating + $2),
		     wins = wins + $3,
		     losses = losses + $4
		 WHERE id = $1`,
		id, delta, winInc, lossInc,
	)
	return err
}

// GetTopByRating returns the leaderboard, highest rating first.
func (r *PlayerRepository) GetTopByRating(ctx context.Context, limit int) ([]*domain.Player, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, COALESCE(username, ''), rating, wins, losses, created_at
		 FROM players
		 ORDER BY rating DESC, wins DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.Username, &p.Rating, &p.Wins, &p.Losses, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &p)
	}

	return result, rows.Err()
}
