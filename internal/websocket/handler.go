package websocket

import (
	"encoding/json"
	"time"

	"proctoflex-be/internal/entity"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs wires a freshly upgraded connection into the hub and runs the
// pumps. It blocks until the connection is gone.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID, role entity.UserRole) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, Role: role, Send: make(chan []byte, 256)}
	client.Hub.Register(client)

	// Greet before the pumps start so the frame is first in the queue.
	welcome, _ := json.Marshal(map[string]interface{}{
		"type":      "connected",
		"user_id":   userID.String(),
		"role":      role,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	client.Hub.push(client, welcome)

	go client.writePump()
	client.readPump()
}
