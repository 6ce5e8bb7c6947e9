package ws

const (
	// client - server
	MsgAuth       = "auth"
	MsgJoinQueue  = "join_queue"
	MsgLeaveQueue = "leave_queue"
	MsgGameAction = "game_action"
	MsgPing       = "ping"

	// server - client
	MsgQueueStatus = "queue_status"
	MsgMatchFound  = "match_found"
	MsgGameUpdate  = "game_update"
	MsgGameOver    = "game_over"
	MsgError       = "error"
)

const (
	QueueStatusIdle   = "idle"
	QueueStatusQueued = "queued"
)

const (
	ResultWin  = "WIN"
	ResultLoss = "LOSS"
)

// error codes for explicit rejections
const (
	CodeValidation = "validation_error"
	CodeState      = "state_error"
)

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}
