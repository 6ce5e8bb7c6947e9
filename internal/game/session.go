package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

// Slot is a session-local seat. Combatants are addressed by slot, not by
// connection id, so a reconnect only has to remap the slot's connection.
type Slot int

const (
	SlotFirst Slot = iota
	SlotSecond
)

func (s Slot) other() Slot {
	if s == SlotFirst {
		return SlotSecond
	}
	return SlotFirst
}

var (
	ErrSessionFinished = errors.New("session is finished")
	ErrNotInSession    = errors.New("connection is not part of this session")
	ErrNotYourTurn     = errors.New("not your turn")
)

// Snapshot is the client-visible session state, keyed by status: an active
// snapshot carries the full combat payload, a finished one only the result.
type Snapshot struct {
	ID     string `json:"id"`
	Status Status `json:"status"`

	// active only
	Players []Combatant `json:"players,omitempty"`
	Turn    int64       `json:"turn,omitempty"` // user id of the turn holder
	Logs    []string    `json:"logs,omitempty"`

	// finished only
	Winner int64 `json:"winner,omitempty"`
}

// Result describes what one accepted action did to the session.
type Result struct {
	Log        string
	Finished   bool
	WinnerConn string
	LoserConn  string
	Snapshot   Snapshot
}

// Session is the authoritative state machine for exactly one match.
// All mutation goes through its mutex; combat math is delegated to Resolve.
type Session struct {
	ID string

	mu         sync.RWMutex
	conns      [2]string // slot -> current connection id
	combatants [2]Combatant
	turn       Slot
	status     Status
	logs       []string
	winner     Slot
	roll       func() int
}

// NewSession starts a match between two connections. The first connection
// holds the opening turn. roll supplies attack damage; nil selects a uniform
// draw in [AttackDamageMin, AttackDamageMax].
func NewSession(id string, firstConn, secondConn string, first, second Combatant, roll func() int) *Session {
	if roll == nil {
		roll = func() int {
			return AttackDamageMin + rand.Intn(AttackDamageMax-AttackDamageMin+1)
		}
	}
	return &Session{
		ID:         id,
		conns:      [2]string{firstConn, secondConn},
		combatants: [2]Combatant{first, second},
		turn:       SlotFirst,
		status:     StatusActive,
		logs:       []string{"Match Started!"},
		roll:       roll,
	}
}

func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Conns returns the connection ids in slot order.
func (s *Session) Conns() [2]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conns
}

// TurnConn returns the connection id of the current turn holder.
func (s *Session) TurnConn() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conns[s.turn]
}

// Opponent returns the combatant facing the given connection.
func (s *Session) Opponent(connID string) (Combatant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	slot, ok := s.slotLocked(connID)
	if !ok {
		return Combatant{}, false
	}
	return s.combatants[slot.other()], true
}

func (s *Session) slotLocked(connID string) (Slot, bool) {
	switch connID {
	case s.conns[SlotFirst]:
		return SlotFirst, true
	case s.conns[SlotSecond]:
		return SlotSecond, true
	default:
		return 0, false
	}
}

// ApplyAction validates turn ownership, resolves the action and advances the
// state machine. A rejected action returns an error and changes nothing.
func (s *Session) ApplyAction(connID string, action Action) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return nil, ErrSessionFinished
	}
	slot, ok := s.slotLocked(connID)
	if !ok {
		return nil, ErrNotInSession
	}
	if slot != s.turn {
		return nil, ErrNotYourTurn
	}

	opp := slot.other()
	actor, opponent, line, defeated := Resolve(s.combatants[slot], s.combatants[opp], action, s.roll())
	s.combatants[slot] = actor
	s.combatants[opp] = opponent
	s.logs = append(s.logs, line)

	res := &Result{Log: line}
	if defeated {
		s.finishLocked(slot)
		res.Finished = true
		res.WinnerConn = s.conns[slot]
		res.LoserConn = s.conns[opp]
	} else {
		s.turn = opp
	}

	res.Snapshot = s.snapshotLocked()
	return res, nil
}

// PassTurn hands the turn to the opponent of connID without resolving an
// action. Used when the turn deadline expires.
func (s *Session) PassTurn(connID string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return nil, ErrSessionFinished
	}
	slot, ok := s.slotLocked(connID)
	if !ok {
		return nil, ErrNotInSession
	}
	if slot != s.turn {
		return nil, ErrNotYourTurn
	}

	s.turn = slot.other()
	line := fmt.Sprintf("%s ran out of time!", s.combatants[slot].Username)
	s.logs = append(s.logs, line)

	return &Result{Log: line, Snapshot: s.snapshotLocked()}, nil
}

// Forfeit finishes the session in favor of the opponent of connID,
// typically because connID disconnected mid-match.
func (s *Session) Forfeit(connID string) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusActive {
		return nil, ErrSessionFinished
	}
	slot, ok := s.slotLocked(connID)
	if !ok {
		return nil, ErrNotInSession
	}

	winner := slot.other()
	line := fmt.Sprintf("%s forfeited the match!", s.combatants[slot].Username)
	s.logs = append(s.logs, line)
	s.finishLocked(winner)

	return &Result{
		Log:        line,
		Finished:   true,
		WinnerConn: s.conns[winner],
		LoserConn:  s.conns[slot],
		Snapshot:   s.snapshotLocked(),
	}, nil
}

func (s *Session) finishLocked(winner Slot) {
	s.status = StatusFinished
	s.winner = winner
	s.logs = append(s.logs, fmt.Sprintf("%s WINS!", s.combatants[winner].Username))
}

// Winner reports the winning combatant once the session is finished.
func (s *Session) Winner() (Combatant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.status != StatusFinished {
		return Combatant{}, false
	}
	return s.combatants[s.winner], true
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{ID: s.ID, Status: s.status}

	if s.status == StatusFinished {
		snap.Winner = s.combatants[s.winner].UserID
		return snap
	}

	snap.Players = []Combatant{s.combatants[SlotFirst], s.combatants[SlotSecond]}
	snap.Turn = s.combatants[s.turn].UserID
	snap.Logs = append([]string(nil), s.logs...)
	return snap
}
