package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"battle_arena/internal/domain"
	"battle_arena/internal/game"
	"battle_arena/internal/logger"
	"battle_arena/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultTurnTime = 15 * time.Second

	// RatingDelta is applied to both players on match end, plus for the
	// winner and minus for the loser.
	RatingDelta = 25
)

// Hub is the single authority over all in-flight state: the connection
// registry, the matchmaking queue and every active session. Handlers and the
// matcher loop funnel through it; it serializes access per resource.
type Hub struct {
	Registry *Registry
	Queue    *MatchQueue

	// ParseToken validates the JWT carried by an auth frame and returns the
	// user id it was issued for. When nil the auth payload is trusted as-is.
	ParseToken func(token string) (int64, error)

	turnTime time.Duration

	mu       sync.RWMutex
	clients  map[string]*Client
	sessions map[string]*game.Session
	connGame map[string]string
	timers   map[string]*time.Timer

	matchRepo  *repository.MatchRepository
	playerRepo *repository.PlayerRepository
}

// NewHub wires the coordinator. Repositories may be nil; the arena then runs
// memory-only and skips the persistence sink. turnTime zero selects the
// default deadline, negative disables it.
func NewHub(matchRepo *repository.MatchRepository, playerRepo *repository.PlayerRepository, queueTick, turnTime time.Duration) *Hub {
	if turnTime == 0 {
		turnTime = DefaultTurnTime
	}
	return &Hub{
		Registry:   NewRegistry(),
		Queue:      NewMatchQueue(queueTick),
		turnTime:   turnTime,
		clients:    make(map[string]*Client),
		sessions:   make(map[string]*game.Session),
		connGame:   make(map[string]string),
		timers:     make(map[string]*time.Timer),
		matchRepo:  matchRepo,
		playerRepo: playerRepo,
	}
}

// Start launches the matcher loop.
func (h *Hub) Start() {
	go h.Queue.Run(h.pair)
}

// Stop halts the matcher and all turn timers. In-flight sessions stay in
// memory until their connections drop.
func (h *Hub) Stop() {
	h.Queue.Stop()

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, t := range h.timers {
		t.Stop()
		delete(h.timers, id)
	}
}

func (h *Hub) OnConnect(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	h.mu.Unlock()

	ConnectionsGauge.Inc()
	logger.Debug("client connected", "conn", c.ID)
}

// OnDisconnect removes every trace of the connection. While queued the entry
// is dropped; in an active session the disconnecting side forfeits.
func (h *Hub) OnDisconnect(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	gameID, inGame := h.connGame[c.ID]
	var s *game.Session
	if inGame {
		s = h.sessions[gameID]
	}
	h.mu.Unlock()

	ConnectionsGauge.Dec()

	if h.Queue.Leave(c.ID) {
		QueueDepthGauge.Set(float64(h.Queue.Len()))
	}

	if s != nil {
		if res, err := s.Forfeit(c.ID); err == nil {
			logger.Info("player forfeited by disconnect", "conn", c.ID, "game", s.ID)
			h.finishSession(s, res, "forfeit")
		}
	}

	h.Registry.Remove(c.ID)
	logger.Debug("client disconnected", "conn", c.ID)
}

// HandleMessage dispatches one inbound frame.
func (h *Hub) HandleMessage(c *Client, raw []byte) {
	var msg struct {
		Type    string          `json:"type"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.sendError(c, CodeValidation, "malformed message")
		return
	}

	switch msg.Type {
	case MsgAuth:
		h.handleAuth(c, msg.Payload)
	case MsgJoinQueue:
		h.handleJoinQueue(c)
	case MsgLeaveQueue:
		h.handleLeaveQueue(c)
	case MsgGameAction:
		h.handleGameAction(c, msg.Payload)
	case MsgPing:
		// keepalive only
	default:
		h.sendError(c, CodeValidation, "unknown message type")
	}
}

func (h *Hub) handleAuth(c *Client, payload json.RawMessage) {
	var p AuthPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.sendError(c, CodeValidation, "malformed auth payload")
		return
	}

	userID := p.UserID
	if p.Token != "" && h.ParseToken != nil {
		id, err := h.ParseToken(p.Token)
		if err != nil {
			h.sendError(c, CodeValidation, "invalid token")
			return
		}
		userID = id
	}

	if userID == 0 || p.Username == "" {
		h.sendError(c, CodeValidation, "user_id and username required")
		return
	}

	rating := domain.StartRating
	if h.playerRepo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if pl, err := h.playerRepo.GetOrCreate(ctx, userID, p.Username); err == nil {
			rating = pl.Rating
		} else {
			logger.Warn("player lookup failed, using start rating", "user", userID, "error", err)
		}
	}

	h.Registry.Register(Identity{ConnID: c.ID, UserID: userID, Username: p.Username, Rating: rating})
	logger.Info("client authenticated", "conn", c.ID, "user", userID, "username", p.Username)

	h.send(c.ID, Message{Type: MsgQueueStatus, Payload: QueueStatusPayload{Status: QueueStatusIdle}})
}

func (h *Hub) handleJoinQueue(c *Client) {
	ident, ok := h.Registry.Lookup(c.ID)
	if !ok {
		h.sendError(c, CodeState, "not authenticated")
		return
	}

	h.mu.RLock()
	_, inGame := h.connGame[c.ID]
	h.mu.RUnlock()
	if inGame {
		h.sendError(c, CodeState, "already in a match")
		return
	}

	h.Queue.Enqueue(QueueEntry{
		ConnID:   c.ID,
		UserID:   ident.UserID,
		Username: ident.Username,
		Rating:   ident.Rating,
	})
	QueueDepthGauge.Set(float64(h.Queue.Len()))

	h.send(c.ID, Message{Type: MsgQueueStatus, Payload: QueueStatusPayload{Status: QueueStatusQueued}})
}

func (h *Hub) handleLeaveQueue(c *Client) {
	if h.Queue.Leave(c.ID) {
		QueueDepthGauge.Set(float64(h.Queue.Len()))
	}
	h.send(c.ID, Message{Type: MsgQueueStatus, Payload: QueueStatusPayload{Status: QueueStatusIdle}})
}

func (h *Hub) handleGameAction(c *Client, payload json.RawMessage) {
	var p GameActionPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		h.sendError(c, CodeValidation, "malformed action payload")
		return
	}

	action, ok := game.ParseAction(p.Action)
	if !ok {
		h.sendError(c, CodeValidation, "unknown action")
		return
	}

	h.mu.RLock()
	s := h.sessions[p.GameID]
	h.mu.RUnlock()
	if s == nil {
		h.sendError(c, CodeState, "no such game")
		return
	}

	res, err := s.ApplyAction(c.ID, action)
	if err != nil {
		h.sendError(c, CodeState, err.Error())
		return
	}

	ActionsTotal.WithLabelValues(string(action)).Inc()

	if res.Finished {
		h.broadcastUpdate(s.Conns(), res.Snapshot)
		h.finishSession(s, res, "knockout")
		return
	}

	h.broadcastUpdate(s.Conns(), res.Snapshot)
	h.scheduleTurnTimer(s)
}

// pair is invoked by the matcher loop with the two oldest waiting players.
// The first entry holds the opening turn.
func (h *Hub) pair(a, b QueueEntry) {
	QueueDepthGauge.Set(float64(h.Queue.Len()))

	h.mu.Lock()
	ca, cb := h.clients[a.ConnID], h.clients[b.ConnID]
	if ca == nil || cb == nil {
		h.mu.Unlock()
		// a player vanished between enqueue and pairing; requeue the survivor
		if ca != nil {
			h.Queue.Enqueue(a)
		}
		if cb != nil {
			h.Queue.Enqueue(b)
		}
		return
	}

	id := "game_" + uuid.NewString()
	s := game.NewSession(id,
		a.ConnID, b.ConnID,
		game.NewCombatant(a.UserID, a.Username),
		game.NewCombatant(b.UserID, b.Username),
		nil,
	)
	h.sessions[id] = s
	h.connGame[a.ConnID] = id
	h.connGame[b.ConnID] = id
	h.mu.Unlock()

	MatchesStarted.Inc()
	logger.Info("match created", "game", id, "first", a.UserID, "second", b.UserID)

	h.send(a.ConnID, Message{Type: MsgMatchFound, Payload: MatchFoundPayload{GameID: id, Opponent: b.Username}})
	h.send(b.ConnID, Message{Type: MsgMatchFound, Payload: MatchFoundPayload{GameID: id, Opponent: a.Username}})

	h.broadcastUpdate(s.Conns(), s.Snapshot())
	h.scheduleTurnTimer(s)
}

// finishSession sends the terminal notices, records the outcome and discards
// the session. After this the session is unreachable for further actions.
func (h *Hub) finishSession(s *game.Session, res *game.Result, reason string) {
	h.send(res.WinnerConn, Message{Type: MsgGameOver, Payload: GameOverPayload{Result: ResultWin}})
	h.send(res.LoserConn, Message{Type: MsgGameOver, Payload: GameOverPayload{Result: ResultLoss}})

	h.mu.Lock()
	delete(h.sessions, s.ID)
	for _, conn := range s.Conns() {
		delete(h.connGame, conn)
	}
	if t := h.timers[s.ID]; t != nil {
		t.Stop()
		delete(h.timers, s.ID)
	}
	h.mu.Unlock()

	MatchesFinished.WithLabelValues(reason).Inc()
	logger.Info("match finished", "game", s.ID, "reason", reason)

	h.recordResult(s, res, reason)
}

// recordResult notifies the persistence sink without blocking the match flow.
func (h *Hub) recordResult(s *game.Session, res *game.Result, reason string) {
	if h.matchRepo == nil && h.playerRepo == nil {
		return
	}

	winner, ok := s.Winner()
	if !ok {
		return
	}
	loser, ok := s.Opponent(res.WinnerConn)
	if !ok {
		return
	}

	gameID := s.ID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if h.playerRepo != nil {
			if err := h.playerRepo.ApplyResult(ctx, winner.UserID, RatingDelta, true); err != nil {
				logger.Error("rating update failed", "user", winner.UserID, "error", err)
			}
			if err := h.playerRepo.ApplyResult(ctx, loser.UserID, -RatingDelta, false); err != nil {
				logger.Error("rating update failed", "user", loser.UserID, "error", err)
			}
		}

		if h.matchRepo != nil {
			records := []*domain.MatchRecord{
				{GameID: gameID, UserID: winner.UserID, OpponentID: loser.UserID, Result: domain.MatchResultWin, RatingDelta: RatingDelta, Reason: reason},
				{GameID: gameID, UserID: loser.UserID, OpponentID: winner.UserID, Result: domain.MatchResultLose, RatingDelta: -RatingDelta, Reason: reason},
			}
			for _, m := range records {
				if err := h.matchRepo.Create(ctx, m); err != nil {
					logger.Error("match history store failed", "game", gameID, "error", err)
				}
			}
		}
	}()
}

func (h *Hub) scheduleTurnTimer(s *game.Session) {
	if h.turnTime <= 0 {
		return
	}

	gameID := s.ID
	holder := s.TurnConn()

	h.mu.Lock()
	if t := h.timers[gameID]; t != nil {
		t.Stop()
	}
	h.timers[gameID] = time.AfterFunc(h.turnTime, func() {
		h.turnExpired(gameID, holder)
	})
	h.mu.Unlock()
}

// turnExpired auto-passes the turn if the same player still holds it when
// the deadline fires.
func (h *Hub) turnExpired(gameID, holder string) {
	h.mu.RLock()
	s := h.sessions[gameID]
	h.mu.RUnlock()
	if s == nil {
		return
	}

	res, err := s.PassTurn(holder)
	if err != nil {
		// the turn moved on or the session ended; nothing to do
		return
	}

	logger.Info("turn deadline expired", "game", gameID, "conn", holder)
	h.broadcastUpdate(s.Conns(), res.Snapshot)
	h.scheduleTurnTimer(s)
}

func (h *Hub) broadcastUpdate(conns [2]string, snap game.Snapshot) {
	msg := Message{Type: MsgGameUpdate, Payload: GameUpdatePayload{Game: snap}}
	for _, conn := range conns {
		h.send(conn, msg)
	}
}

func (h *Hub) send(connID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("marshal failed", "type", msg.Type, "error", err)
		return
	}

	h.mu.RLock()
	c := h.clients[connID]
	h.mu.RUnlock()

	if c != nil {
		c.queue(data)
	}
}

func (h *Hub) sendError(c *Client, code, message string) {
	h.send(c.ID, Message{Type: MsgError, Payload: ErrorPayload{Code: code, Message: message}})
}
