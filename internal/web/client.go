package web

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/aaronzipp/spyfall-bot/internal/models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMessage = 4096
)

// client is one browser connection
type client struct {
	id        string
	sessionID string
	userID    string
	name      string

	conn   *websocket.Conn
	server *Server
	send   chan Message
	done   chan struct{}
	once   sync.Once
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// deliver queues msg unless the client is gone or stays full past sendTimeout
func (c *client) deliver(msg Message) bool {
	select {
	case c.send <- msg:
		return true
	case <-c.done:
		return false
	case <-time.After(sendTimeout):
		c.server.logger.Warn("web client send timed out", zap.String("conn", c.id))
		return false
	}
}

// readLoop turns inbound frames into command events
func (c *client) readLoop(ctx context.Context) {
	defer func() {
		c.server.disconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessage)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var in Inbound
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.server.logger.Debug("web client read failed", zap.String("conn", c.id), zap.Error(err))
			}
			return
		}
		directives := c.server.interp.HandleCommand(ctx, models.CommandEvent{
			Scope:      models.ScopeGroup,
			SessionID:  c.sessionID,
			SenderID:   c.userID,
			SenderName: c.name,
			Text:       in.Text,
		})
		c.server.dispatch(directives)
	}
}

// writeLoop pumps queued messages to the connection and keeps it alive
func (c *client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.server.logger.Debug("web client write failed", zap.String("conn", c.id), zap.Error(err))
				return
			}
			if msg.Type == TypeLeave {
				c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
