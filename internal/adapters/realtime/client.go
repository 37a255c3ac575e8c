package realtime

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Subscribers only listen; inbound frames beyond control messages are
	// discarded, so the limit just guards against abuse.
	maxMessageSize = 512

	sendBufferSize = 16
)

// client is one live subscription. writePump is the connection's only
// writer, readPump its only reader. The send channel is never closed;
// dropping a client closes the connection, which terminates both pumps.
type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	isAdmin   bool
	closeOnce sync.Once
}

func newClient(h *Hub, conn *websocket.Conn, isAdmin bool) *client {
	return &client{
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		isAdmin: isAdmin,
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		c.hub.unregister(c)
		c.conn.Close() //nolint:errcheck
	})
}

// readPump drains inbound frames so pongs and close frames are processed.
func (c *client) readPump() {
	defer c.close()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards broadcast messages and keeps the connection alive with
// pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()
	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
