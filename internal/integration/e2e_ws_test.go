package integration

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"battle_arena/internal/http/handlers"
	"battle_arena/internal/ws"
)

// TestE2E_WS_Match runs a full duel over real websocket connections: two
// clients authenticate, queue, get matched by the matcher loop and alternate
// attacks until one side is knocked out. No database is involved; the hub
// runs memory-only.
func TestE2E_WS_Match(t *testing.T) {
	hub := ws.NewHub(nil, nil, 50*time.Millisecond, -1)
	hub.Start()
	defer hub.Stop()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewHandler(nil)
	r.GET("/ws", h.WS(hub))

	ts := httptest.NewServer(r)
	defer ts.Close()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	d := websocket.DefaultDialer

	connA, _, err := d.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	connB, _, err := d.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial B: %v", err)
	}
	defer connB.Close()

	// one reader goroutine per connection to avoid concurrent ReadMessage calls
	startReader := func(conn *websocket.Conn) chan []byte {
		out := make(chan []byte, 32)
		go func() {
			defer close(out)
			for {
				_, msg, err := conn.ReadMessage()
				if err != nil {
					return
				}
				out <- msg
			}
		}()
		return out
	}

	chA := startReader(connA)
	chB := startReader(connB)

	send := func(conn *websocket.Conn, typ string, payload any) {
		t.Helper()
		data, err := json.Marshal(map[string]any{"type": typ, "payload": payload})
		if err != nil {
			t.Fatal(err)
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			t.Fatalf("write %s: %v", typ, err)
		}
	}

	waitFor := func(ch chan []byte, typ string, tmo time.Duration) map[string]any {
		t.Helper()
		deadline := time.After(tmo)
		for {
			select {
			case m, ok := <-ch:
				if !ok {
					t.Fatalf("connection closed waiting for %s", typ)
				}
				var obj map[string]any
				if err := json.Unmarshal(m, &obj); err != nil {
					t.Fatalf("bad frame %s: %v", m, err)
				}
				if obj["type"] == typ {
					payload, _ := obj["payload"].(map[string]any)
					return payload
				}
			case <-deadline:
				t.Fatalf("timeout waiting for %s", typ)
			}
		}
	}

	send(connA, "auth", map[string]any{"user_id": 1001, "username": "userA"})
	send(connB, "auth", map[string]any{"user_id": 1002, "username": "userB"})
	waitFor(chA, "queue_status", 2*time.Second)
	waitFor(chB, "queue_status", 2*time.Second)

	send(connA, "join_queue", nil)
	send(connB, "join_queue", nil)

	mfA := waitFor(chA, "match_found", 5*time.Second)
	mfB := waitFor(chB, "match_found", 5*time.Second)

	gameID, _ := mfA["game_id"].(string)
	if gameID == "" || gameID != mfB["game_id"] {
		t.Fatalf("game ids differ: %v vs %v", mfA["game_id"], mfB["game_id"])
	}

	conns := map[int64]*websocket.Conn{1001: connA, 1002: connB}
	chans := map[int64]chan []byte{1001: chA, 1002: chB}

	// first snapshot carries the opening turn
	snap := waitFor(chA, "game_update", 2*time.Second)
	waitFor(chB, "game_update", 2*time.Second)

	var winner int64
	for i := 0; i < 60; i++ {
		g, _ := snap["game"].(map[string]any)
		if g == nil {
			t.Fatalf("game_update without game: %v", snap)
		}
		if g["status"] == "finished" {
			winner = int64(g["winner"].(float64))
			break
		}

		turn := int64(g["turn"].(float64))
		send(conns[turn], "game_action", map[string]any{"game_id": gameID, "action": "attack"})

		snap = waitFor(chans[turn], "game_update", 2*time.Second)
		waitFor(chans[other(turn)], "game_update", 2*time.Second)
	}
	if winner == 0 {
		t.Fatal("no knockout after 60 attacks")
	}

	over := waitFor(chans[winner], "game_over", 2*time.Second)
	if over["result"] != "WIN" {
		t.Fatalf("winner result = %v; want WIN", over["result"])
	}
	over = waitFor(chans[other(winner)], "game_over", 2*time.Second)
	if over["result"] != "LOSS" {
		t.Fatalf("loser result = %v; want LOSS", over["result"])
	}
}

func other(id int64) int64 {
	if id == 1001 {
		return 1002
	}
	return 1001
}

// TestE2E_WS_DisconnectForfeit verifies that dropping a connection mid-match
// hands the survivor the win.
func TestE2E_WS_DisconnectForfeit(t *testing.T) {
	hub := ws.NewHub(nil, nil, 50*time.Millisecond, -1)
	hub.Start()
	defer hub.Stop()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewHandler(nil)
	r.GET("/ws", h.WS(hub))

	ts := httptest.NewServer(r)
	defer ts.Close()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	connA, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	connB, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial B: %v", err)
	}

	authFrame := func(id int64, name string) []byte {
		return []byte(fmt.Sprintf(`{"type":"auth","payload":{"user_id":%d,"username":%q}}`, id, name))
	}

	_ = connA.WriteMessage(websocket.TextMessage, authFrame(2001, "stayer"))
	_ = connB.WriteMessage(websocket.TextMessage, authFrame(2002, "leaver"))
	_ = connA.WriteMessage(websocket.TextMessage, []byte(`{"type":"join_queue"}`))
	_ = connB.WriteMessage(websocket.TextMessage, []byte(`{"type":"join_queue"}`))

	readUntil := func(conn *websocket.Conn, typ string, tmo time.Duration) map[string]any {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(tmo))
		for {
			_, m, err := conn.ReadMessage()
			if err != nil {
				t.Fatalf("read waiting for %s: %v", typ, err)
			}
			var obj map[string]any
			if err := json.Unmarshal(m, &obj); err != nil {
				continue
			}
			if obj["type"] == typ {
				payload, _ := obj["payload"].(map[string]any)
				return payload
			}
		}
	}

	readUntil(connA, "match_found", 5*time.Second)

	connB.Close()

	over := readUntil(connA, "game_over", 5*time.Second)
	if over["result"] != "WIN" {
		t.Fatalf("survivor result = %v; want WIN", over["result"])
	}
}
