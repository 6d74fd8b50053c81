package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs joins the connection to the digest room and blocks until it closes.
func ServeWs(hub *Hub, c *websocket.Conn, userID, digestID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, DigestID: digestID, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
