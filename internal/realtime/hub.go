package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/forkcast/forkcast/internal/auth"
	"github.com/forkcast/forkcast/internal/logger"
)

type wsClient struct {
	userID string
	conn   *websocket.Conn

	// Serializes writes: gorilla/websocket permits one concurrent writer
	// per connection, and bus callbacks arrive from many goroutines.
	writeMu sync.Mutex
}

func (c *wsClient) write(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// Hub tracks websocket connections per user and pushes bus changes to the
// owning user's sockets.
type Hub struct {
	log      *logger.Logger
	bus      Bus
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[string]map[*wsClient]struct{}
}

func NewHub(bus Bus, log *logger.Logger) *Hub {
	h := &Hub{
		log: log.With("component", "realtime_hub"),
		bus: bus,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[string]map[*wsClient]struct{}),
	}
	bus.Subscribe(h.broadcast)
	return h
}

// Notify publishes a change onto the bus. The hub's own subscription routes
// it back to local sockets (and, with Redis, to other instances).
func (h *Hub) Notify(ctx context.Context, entity, action, userID string) {
	if err := h.bus.Publish(ctx, Change{Entity: entity, Action: action, UserID: userID}); err != nil {
		h.log.Warn("change publish failed", "entity", entity, "error", err)
	}
}

// ServeWS upgrades an authenticated request to a websocket and keeps it
// registered until the peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{userID: userID, conn: conn}
	h.register(client)
	defer h.unregister(client)

	// Inbound messages are ignored; the read loop exists to detect closes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(c *wsClient) {
	h.mu.Lock()
	if h.clients[c.userID] == nil {
		h.clients[c.userID] = make(map[*wsClient]struct{})
	}
	h.clients[c.userID][c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *wsClient) {
	h.mu.Lock()
	if set := h.clients[c.userID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.userID)
		}
	}
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *Hub) broadcast(change Change) {
	msg, err := json.Marshal(change)
	if err != nil {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[change.UserID] {
		_ = c.write(msg)
	}
}
