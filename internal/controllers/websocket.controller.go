package controllers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"deskbridge/internal/middleware"
	"deskbridge/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origin enforcement happens in the CORS middleware; webview
		// origins are not plain http and would fail the default check.
		return true
	},
}

// HandleWebSocket upgrades an authenticated shell connection and starts
// its read/write pumps.
func HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "missing token")
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := services.ValidateToken(token)
	if err != nil {
		if middleware.GlobalSecurityLogger != nil {
			middleware.GlobalSecurityLogger.LogFailedAuth(c.ClientIP(), "invalid token: "+err.Error())
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token: " + err.Error()})
		return
	}

	if middleware.GlobalSecurityLogger != nil {
		middleware.GlobalSecurityLogger.LogWebSocketConnected(c.ClientIP(), claims.Client)
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	clientID := fmt.Sprintf("%s-%s-%d", c.ClientIP(), claims.Client, time.Now().UnixNano())
	client := &services.ClientConnection{
		ID:    clientID,
		Conn:  ws,
		Send:  make(chan services.WebSocketMessage, 256),
		Close: make(chan bool),
	}

	hub := services.GetWebSocketHub()
	hub.Register(client)

	go readPump(client, hub)
	go writePump(client)
}

// readPump reads frames from the shell and dispatches invoke requests.
func readPump(client *services.ClientConnection, hub *services.WebSocketHub) {
	defer func() {
		hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	client.Conn.SetPongHandler(func(string) error {
		return nil
	})

	for {
		var msg services.WebSocketMessage
		err := client.Conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] WebSocket error: %v", err)
			}
			return
		}

		switch msg.Type {
		case "invoke":
			data, err := services.DispatchInvoke(msg.Op, msg.Args)
			reply := services.WebSocketMessage{
				ID:        msg.ID,
				Timestamp: time.Now(),
			}
			if err != nil {
				reply.Type = "error"
				reply.Error = err.Error()
			} else {
				reply.Type = "result"
				reply.Data = data
			}
			select {
			case client.Send <- reply:
			case <-client.Close:
				return
			}

		case "auth":
			// Re-authentication over an open channel
			reply := services.WebSocketMessage{Timestamp: time.Now()}
			if _, err := services.ValidateToken(msg.Token); err != nil {
				if middleware.GlobalSecurityLogger != nil {
					middleware.GlobalSecurityLogger.LogFailedAuth(client.ID, "websocket auth message: "+err.Error())
				}
				reply.Type = "auth_error"
				reply.Error = "invalid token"
			} else {
				reply.Type = "auth_success"
			}
			select {
			case client.Send <- reply:
			case <-client.Close:
				return
			}

		case "ping":
			select {
			case client.Send <- services.WebSocketMessage{Type: "pong", Timestamp: time.Now()}:
			case <-client.Close:
				return
			default:
				return
			}

		case "subscribe":
			hub.Subscribe(client.ID, true)

		case "unsubscribe":
			hub.Subscribe(client.ID, false)

		default:
			log.Printf("[WS] Unknown message type: %s", msg.Type)
		}
	}
}

// writePump writes frames to the shell.
func writePump(client *services.ClientConnection) {
	defer func() {
		client.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			err := client.Conn.WriteJSON(msg)
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("[WS] Write error: %v", err)
				}
				return
			}

		case <-client.Close:
			client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
