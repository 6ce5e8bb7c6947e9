package ws

import (
	"testing"
	"time"
)

func entry(conn string, user int64) QueueEntry {
	return QueueEntry{ConnID: conn, UserID: user, Username: conn, Rating: 1000}
}

func TestEnqueueDuplicateIsNoOp(t *testing.T) {
	q := NewMatchQueue(time.Hour)
	defer q.Stop()

	if !q.Enqueue(entry("c1", 1)) {
		t.Fatal("first enqueue should succeed")
	}
	if q.Enqueue(entry("c1", 1)) {
		t.Fatal("same connection must not queue twice")
	}
	if q.Enqueue(entry("c2", 1)) {
		t.Fatal("same user must not queue twice")
	}
	if q.Len() != 1 {
		t.Fatalf("len = %d; want 1", q.Len())
	}
}

func TestLeave(t *testing.T) {
	q := NewMatchQueue(time.Hour)
	defer q.Stop()

	q.Enqueue(entry("c1", 1))
	q.Enqueue(entry("c2", 2))

	if !q.Leave("c1") {
		t.Fatal("leave of queued connection should report removal")
	}
	if q.Leave("c1") {
		t.Fatal("second leave must be a no-op")
	}
	if q.Len() != 1 {
		t.Fatalf("len = %d; want 1", q.Len())
	}
}

func TestTakePairIsFIFO(t *testing.T) {
	q := NewMatchQueue(time.Hour)
	defer q.Stop()

	for i, conn := range []string{"a", "b", "c", "d"} {
		q.Enqueue(entry(conn, int64(i+1)))
	}

	first, second, ok := q.takePair()
	if !ok {
		t.Fatal("expected a pair")
	}
	if first.ConnID != "a" || second.ConnID != "b" {
		t.Fatalf("paired %s/%s; want a/b", first.ConnID, second.ConnID)
	}
	if q.Len() != 2 {
		t.Fatalf("len after pairing = %d; want 2", q.Len())
	}

	first, second, _ = q.takePair()
	if first.ConnID != "c" || second.ConnID != "d" {
		t.Fatalf("paired %s/%s; want c/d", first.ConnID, second.ConnID)
	}

	if _, _, ok := q.takePair(); ok {
		t.Fatal("empty queue must not pair")
	}
}

func TestTakePairNeedsTwo(t *testing.T) {
	q := NewMatchQueue(time.Hour)
	defer q.Stop()

	q.Enqueue(entry("solo", 1))
	if _, _, ok := q.takePair(); ok {
		t.Fatal("a single waiting player must stay queued")
	}
	if q.Len() != 1 {
		t.Fatalf("len = %d; want 1", q.Len())
	}
}

func TestRunPairsOncePerTick(t *testing.T) {
	q := NewMatchQueue(20 * time.Millisecond)
	defer q.Stop()

	for i, conn := range []string{"a", "b", "c", "d"} {
		q.Enqueue(entry(conn, int64(i+1)))
	}

	type pairing struct {
		first, second string
		at            time.Time
	}
	pairs := make(chan pairing, 4)

	go q.Run(func(a, b QueueEntry) {
		pairs <- pairing{a.ConnID, b.ConnID, time.Now()}
	})

	var got []pairing
	for len(got) < 2 {
		select {
		case p := <-pairs:
			got = append(got, p)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out after %d pairings", len(got))
		}
	}

	if got[0].first != "a" || got[0].second != "b" {
		t.Fatalf("first tick paired %s/%s; want a/b", got[0].first, got[0].second)
	}
	if got[1].first != "c" || got[1].second != "d" {
		t.Fatalf("second tick paired %s/%s; want c/d", got[1].first, got[1].second)
	}
	// c and d waited for the next tick
	if gap := got[1].at.Sub(got[0].at); gap < 10*time.Millisecond {
		t.Fatalf("both pairings happened in one tick (gap %v)", gap)
	}
}

func TestStopHaltsRun(t *testing.T) {
	q := NewMatchQueue(5 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		q.Run(func(a, b QueueEntry) {})
		close(done)
	}()

	q.Stop()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}

	// Stop twice is safe
	q.Stop()
}
