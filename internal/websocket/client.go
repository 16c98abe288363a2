package websocket

import (
	"encoding/json"
	"time"

	"proctoflex-be/internal/entity"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is the middleman between one websocket connection and the hub.
type Client struct {
	Hub *Hub

	// The physical channel; owned by the transport, not the registry.
	Conn *websocket.Conn

	UserID uuid.UUID
	Role   entity.UserRole

	// Buffered channel of outbound messages.
	Send chan []byte
}

// inboundMessage is a client -> server control frame.
type inboundMessage struct {
	Type      string `json:"type"`
	ExamID    uint   `json:"exam_id,omitempty"`
	SessionID uint   `json:"session_id,omitempty"`
}

// readPump consumes control messages until the connection dies, then tears
// the client down through the hub's single unregister path. The deferred
// unregister fires exactly once whether the client closed, the network
// failed, or the server is shutting down.
func (c *Client) readPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			break
		}
		c.handleMessage(data)
	}
}

func (c *Client) handleMessage(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		// Unknown frames are ignored, not fatal.
		return
	}

	switch msg.Type {
	case "subscribe_exam":
		if msg.ExamID != 0 {
			c.Hub.SubscribeExam(c, msg.ExamID)
			c.reply(map[string]interface{}{"type": "subscribed", "exam_id": msg.ExamID})
		}
	case "subscribe_session":
		if msg.SessionID != 0 {
			c.Hub.SubscribeSession(c, msg.SessionID)
			c.reply(map[string]interface{}{"type": "subscribed", "session_id": msg.SessionID})
		}
	case "ping":
		c.reply(map[string]interface{}{"type": "pong"})
	}
}

// reply is a best-effort push back to this client only. It goes through the
// hub so a reply can never race Unregister onto a closed channel.
func (c *Client) reply(v map[string]interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.Hub.push(c, data)
}

// writePump is the single writer for this connection, so messages queued on
// Send reach the socket in order.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
