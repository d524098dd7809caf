// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"garage-ops-api-server/internal/auth"
	"garage-ops-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The REST layer handles auth; the origin check is left to the proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

const pongWait = 60 * time.Second

type WebSocketHandler struct {
	Hub  *socket.Hub
	Auth *auth.Service
}

// Serve upgrades the connection. Browsers cannot set an Authorization
// header on a websocket handshake, so the token rides a query parameter.
// The connection joins the user's room and their branch room.
func (h *WebSocketHandler) Serve(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		respondError(c, http.StatusUnauthorized, KindAuth, "Token query parameter is required")
		return
	}
	claims, err := h.Auth.ValidateToken(tokenString)
	if err != nil {
		respondError(c, http.StatusUnauthorized, KindAuth, "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	// Register starts the connection's single writer goroutine; pings and
	// broadcasts both go through it.
	h.Hub.Register(conn, socket.UserRoom(claims.UserID), socket.BranchRoom(claims.BranchID))

	go h.readPump(conn)
}

// readPump drains inbound frames so close and pong handlers fire. Clients
// do not send application data over the socket; everything mutating goes
// through REST.
func (h *WebSocketHandler) readPump(conn *websocket.Conn) {
	defer func() {
		h.Hub.Unregister(conn)
		conn.Close()
	}()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
