package handler

import (
	"civicconnect/backend/internal/hub"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Dashboards may be served from another origin in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades a dashboard connection and subscribes it to ledger events.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	id, err := h.authenticate(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired session"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := hub.NewWebSocketClient(h.Hub, conn, id.Role)
	select {
	case h.Hub.RegisterCh <- client:
	case <-c.Request.Context().Done():
		conn.Close()
		return
	}
	client.Run()
}
