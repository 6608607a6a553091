package hub

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/orderlink/models"
	"github.com/yeremiapane/orderlink/utils"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected staff terminal (chef, staff, admin) for
// live broadcasting. Delivery is best-effort: a terminal that is not
// connected simply misses the message and catches up via the mailbox
// or the order store.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mu      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]string),
	}
}

// Register adds a connection with its role.
func (h *Hub) Register(conn *websocket.Conn, role string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = role
}

// Unregister releases a connection.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// ClientCount returns how many terminals are currently connected.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastEnvelope pushes a broadcast envelope to every terminal.
func (h *Hub) BroadcastEnvelope(env models.BroadcastEnvelope) {
	h.Broadcast(Message{
		Event: env.Type,
		Data:  env,
	})
}

// BroadcastOrderUpdate pushes a full order record, used by the staff
// side when a kitchen status advances.
func (h *Hub) BroadcastOrderUpdate(order models.Order) {
	h.Broadcast(Message{
		Event: "order_update",
		Data:  order,
	})
}

// Broadcast sends a message to every registered client. A failed write
// drops that client's copy only; other clients still receive theirs.
func (h *Hub) Broadcast(msg Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("Error marshaling hub message: %v", err)
		return
	}

	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("Error sending %s to %s client: %v", msg.Event, role, err)
			continue
		}
	}
}
