package ws

import (
	"sync"
	"time"

	"battle_arena/internal/logger"
)

const DefaultQueueTick = 2 * time.Second

// QueueEntry is one player waiting for an opponent.
type QueueEntry struct {
	ConnID   string
	UserID   int64
	Username string
	Rating   int
}

// MatchQueue is a strict FIFO waiting list. A periodic tick pairs the two
// oldest entries; at most one pairing happens per tick.
type MatchQueue struct {
	mu      sync.Mutex
	entries []QueueEntry

	tick time.Duration
	stop chan struct{}
	once sync.Once
}

func NewMatchQueue(tick time.Duration) *MatchQueue {
	if tick <= 0 {
		tick = DefaultQueueTick
	}
	return &MatchQueue{
		tick: tick,
		stop: make(chan struct{}),
	}
}

// Enqueue appends an entry unless the connection or the user already holds
// one. Returns false on the duplicate no-op.
func (q *MatchQueue) Enqueue(e QueueEntry) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, cur := range q.entries {
		if cur.ConnID == e.ConnID || cur.UserID == e.UserID {
			return false
		}
	}
	q.entries = append(q.entries, e)
	return true
}

// Leave removes the entry for a connection; no-op if absent.
func (q *MatchQueue) Leave(connID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	for i, cur := range q.entries {
		if cur.ConnID == connID {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

func (q *MatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// takePair removes and returns the two oldest entries. The first returned
// entry holds the opening turn of the new match.
func (q *MatchQueue) takePair() (QueueEntry, QueueEntry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) < 2 {
		return QueueEntry{}, QueueEntry{}, false
	}
	a, b := q.entries[0], q.entries[1]
	q.entries = q.entries[2:]
	return a, b, true
}

// Run drives the matcher until Stop is called. pair is invoked with the two
// oldest waiting players, oldest first; one pairing per tick.
func (q *MatchQueue) Run(pair func(a, b QueueEntry)) {
	ticker := time.NewTicker(q.tick)
	defer ticker.Stop()

	logger.Info("matchmaking queue started", "tick", q.tick.String())

	for {
		select {
		case <-ticker.C:
			if a, b, ok := q.takePair(); ok {
				pair(a, b)
			}
		case <-q.stop:
			logger.Info("matchmaking queue stopped")
			return
		}
	}
}

// Stop terminates the Run loop. Safe to call more than once.
func (q *MatchQueue) Stop() {
	q.once.Do(func() { close(q.stop) })
}
