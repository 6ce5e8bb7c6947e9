package domain

import "time"

const StartRating = 1000

type Player struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	Rating    int       `db:"rating" json:"rating"`
	Wins      int       `db:"wins" json:"wins"`
	Losses    int       `db:"losses" json:"losses"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
