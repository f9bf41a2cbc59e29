package websocket

import "github.com/rs/zerolog/log"

// directedMessage targets all connections of a single user.
type directedMessage struct {
	userID  int64
	message []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
// All map access and all closes of client Send channels happen on the Run
// goroutine; other goroutines talk to the hub through its channels only.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Inbound messages from the clients for global broadcast.
	Broadcast chan []byte

	// Register requests from the clients.
	Register chan *Client

	// Unregister requests from clients.
	Unregister chan *Client

	// Messages addressed to a single user's connections.
	directed chan directedMessage

	// A map of user IDs to the set of connections belonging to that user.
	subscriptions map[int64]map[*Client]bool
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Broadcast:     make(chan []byte),
		Register:      make(chan *Client),
		Unregister:    make(chan *Client),
		directed:      make(chan directedMessage, 64),
		clients:       make(map[*Client]bool),
		subscriptions: make(map[int64]map[*Client]bool),
	}
}

// Run starts the Hub's message processing loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.clients[client] = true
			h.addSubscription(client)
			log.Info().Int("total_clients", len(h.clients)).Msg("Client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				log.Info().Int("total_clients", len(h.clients)).Msg("Client disconnected")
			}
		case message := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					h.drop(client)
				}
			}
		case dm := <-h.directed:
			for client := range h.subscriptions[dm.userID] {
				select {
				case client.Send <- dm.message:
				default:
					h.drop(client)
				}
			}
		}
	}
}

// BroadcastToUser queues a message for all connections of a specific user.
// It never blocks; when the hub is not keeping up the sample is dropped,
// since the feed is advisory and clients re-fetch state over HTTP anyway.
func (h *Hub) BroadcastToUser(userID int64, message []byte) {
	select {
	case h.directed <- directedMessage{userID: userID, message: message}:
	default:
	}
}

// drop removes a client from all hub state and closes its Send channel.
// Only ever called from the Run goroutine, so the close happens once.
func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	h.removeSubscription(client)
	close(client.Send)
}

func (h *Hub) addSubscription(client *Client) {
	if h.subscriptions[client.UserID] == nil {
		h.subscriptions[client.UserID] = make(map[*Client]bool)
	}
	h.subscriptions[client.UserID][client] = true
}

func (h *Hub) removeSubscription(client *Client) {
	if subs, ok := h.subscriptions[client.UserID]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscriptions, client.UserID)
		}
	}
}
