package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

// Smoke test: two clients authenticate, queue, get matched and trade attacks
// until one of them wins. Run against a local server.
func main() {
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws", port)

	dialer := websocket.DefaultDialer

	connA, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial A: %v", err)
	}
	defer connA.Close()

	connB, _, err := dialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial B: %v", err)
	}
	defer connB.Close()

	send := func(conn *websocket.Conn, typ string, payload any) {
		msg := map[string]any{"type": typ}
		if payload != nil {
			msg["payload"] = payload
		}
		data, _ := json.Marshal(msg)
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Fatalf("write %s: %v", typ, err)
		}
	}

	send(connA, "auth", map[string]any{"user_id": 3001, "username": "smokeA"})
	send(connB, "auth", map[string]any{"user_id": 3002, "username": "smokeB"})
	send(connA, "join_queue", nil)
	send(connB, "join_queue", nil)

	// wait for match_found on both ends
	waitFor := func(conn *websocket.Conn, typ string) map[string]any {
		conn.SetReadDeadline(time.Now().Add(10 * time.Second))
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				log.Fatalf("read waiting for %s: %v", typ, err)
			}
			var obj map[string]any
			_ = json.Unmarshal(msg, &obj)
			if t, ok := obj["type"].(string); ok && t == typ {
				return obj
			}
		}
	}

	found := waitFor(connA, "match_found")
	payload := found["payload"].(map[string]any)
	gameID := payload["game_id"].(string)
	waitFor(connB, "match_found")
	log.Printf("matched in game %s", gameID)

	// A holds the opening turn; alternate attacks until someone drops
	conns := []*websocket.Conn{connA, connB}
	names := []string{"A", "B"}
	for i := 0; i < 40; i++ {
		conn := conns[i%2]
		send(conn, "game_action", map[string]any{"game_id": gameID, "action": "attack"})

		upd := waitFor(conn, "game_update")
		game := upd["payload"].(map[string]any)["game"].(map[string]any)
		if game["status"] == "finished" {
			log.Printf("%s landed the final blow on move %d", names[i%2], i+1)
			over := waitFor(conn, "game_over")
			log.Printf("%s got: %v", names[i%2], over["payload"])
			log.Println("smoke test finished")
			return
		}
	}

	log.Fatal("no winner after 40 moves")
}
