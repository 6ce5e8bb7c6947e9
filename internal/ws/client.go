package ws

import (
	"sync"
	"time"

	"battle_arena/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second

	maxMessageSize = 4096
)

// Client owns one websocket connection. Reads are dispatched to the Hub,
// writes go through the buffered Send channel drained by writePump.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	hub      *Hub
	done     chan struct{}
	doneOnce sync.Once
}

func NewClient(conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, 64),
		hub:  hub,
		done: make(chan struct{}),
	}
}

func (c *Client) Run() {
	c.hub.OnConnect(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.OnDisconnect(c)
		c.close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("read error", "conn", c.ID, "error", err)
			}
			return
		}
		c.hub.HandleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warn("write error", "conn", c.ID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// queue hands a frame to writePump without blocking the hub. A client that
// cannot drain its buffer loses frames rather than stalling the match.
func (c *Client) queue(data []byte) {
	select {
	case c.Send <- data:
	case <-c.done:
	default:
		logger.Warn("send buffer full, dropping frame", "conn", c.ID)
	}
}

func (c *Client) close() {
	c.doneOnce.Do(func() { close(c.done) })
	_ = c.Conn.Close()
}
