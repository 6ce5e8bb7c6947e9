package ws

import "battle_arena/internal/game"

// client → server
type AuthPayload struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Token    string `json:"token,omitempty"` // JWT from the identity service
}

type GameActionPayload struct {
	GameID string `json:"game_id"`
	Action string `json:"action"` // attack | heal | special
}

// server → client
type QueueStatusPayload struct {
	Status string `json:"status"` // idle | queued
}

type MatchFoundPayload struct {
	GameID   string `json:"game_id"`
	Opponent string `json:"opponent"`
}

type GameUpdatePayload struct {
	Game game.Snapshot `json:"game"`
}

type GameOverPayload struct {
	Result string `json:"result"` // WIN | LOSS
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
