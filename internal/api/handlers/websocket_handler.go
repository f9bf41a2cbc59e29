package handlers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/edvass/notevault/internal/auth"
	ws "github.com/edvass/notevault/internal/websocket"
)

// WebSocketHandler handles upgrading HTTP connections to WebSocket connections.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocketHandler.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins (consider tightening this in production).
		return true
	},
}

// Serve authenticates and upgrades the connection, then binds it to the
// hub under the caller's user id so only their own events reach it.
func (h *WebSocketHandler) Serve(w http.ResponseWriter, r *http.Request) {
	// Browsers can't set headers on websocket requests, so the token may
	// also arrive as a query parameter.
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		tokenStr = auth.TokenFromRequest(r)
	}
	if tokenStr == "" {
		http.Error(w, "Missing auth token", http.StatusUnauthorized)
		return
	}

	claims, err := auth.ValidateJWT(tokenStr)
	if err != nil {
		http.Error(w, "Invalid auth token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade websocket connection")
		return
	}

	client := ws.NewClient(h.hub, conn, claims.UserID)
	h.hub.Register <- client

	go client.WritePump()
	go client.ReadPump()
}
