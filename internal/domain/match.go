package domain

import "time"

type MatchResult string

const (
	MatchResultWin  MatchResult = "win"
	MatchResultLose MatchResult = "lose"
)

// MatchRecord is one participant's view of a finished match. Two rows are
// written per match, one per player.
type MatchRecord struct {
	ID          int64       `db:"id" json:"id"`
	GameID      string      `db:"game_id" json:"game_id"`
	UserID      int64       `db:"user_id" json:"user_id"`
	OpponentID  int64       `db:"opponent_id" json:"opponent_id"`
	Result      MatchResult `db:"result" json:"result"`
	RatingDelta int         `db:"rating_delta" json:"rating_delta"`
	Reason      string      `db:"reason" json:"reason"` // knockout | forfeit
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}
