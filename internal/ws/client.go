package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edagames/arena/internal/model"
)

const (
	// writeWait is the deadline for a single frame write
	writeWait = 10 * time.Second

	// pingPeriod keeps idle channels alive through proxies
	pingPeriod = 50 * time.Second

	// sendBuffer is the per-client outbound queue; a full queue means
	// the recipient is too slow and the event is dropped
	sendBuffer = 256
)

// client is one live channel for one identity
type client struct {
	id   model.ClientID
	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

func newClient(id model.ClientID, conn *websocket.Conn) *client {
	return &client{
		id:   id,
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
}

// close releases the channel exactly once; the write pump notices the
// closed queue and tears down the socket
func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// writePump is the single writer for the connection. gorilla/websocket
// allows at most one concurrent writer, so every send funnels through
// the queue.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
