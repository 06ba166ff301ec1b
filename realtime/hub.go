package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yeremiapane/storefront-api/utils"
)

// Event types
const (
	EventAdminNotification = "admin_notification"
	EventOrderUpdate       = "order_update"
)

const writeWait = 5 * time.Second

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi websocket admin yang sedang terbuka
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> admin id
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]uint)}
}

// Register -> menambahkan connection milik admin
func (h *Hub) Register(conn *websocket.Conn, adminID uint) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = adminID
}

// Unregister -> melepaskan dan menutup connection
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if _, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		conn.Close()
	}
}

func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Broadcast mengirim pesan ke semua admin. Hub nil aman dipanggil (realtime nonaktif).
func (h *Hub) Broadcast(msg Message) {
	if h == nil {
		return
	}

	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling realtime message: %v", err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, adminID := range h.clients {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"admin_id": adminID,
				"event":    msg.Event,
			}).Warnf("Dropping realtime client: %v", err)
			delete(h.clients, conn)
			conn.Close()
		}
	}
}

// Serve menahan koneksi sampai client menutupnya. Pesan dari client diabaikan.
func (h *Hub) Serve(conn *websocket.Conn, adminID uint) {
	h.Register(conn, adminID)
	defer h.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
