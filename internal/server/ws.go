package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/neonlink/internal/game"
)

// BroadcastInterval paces state pushes at about 15 FPS.
const BroadcastInterval = 66 * time.Millisecond

const writeWait = time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// actionMessage is an inbound websocket message.
type actionMessage struct {
	Action string `json:"action"`
}

// StateHandler pushes the published game state to websocket clients and
// forwards their action messages to the game loop.
type StateHandler struct {
	source StateSource
	sink   func(game.Action) bool

	clients map[*websocket.Conn]bool
	mu      sync.RWMutex

	stopCh    chan struct{}
	closeOnce sync.Once
}

// NewStateHandler creates a StateHandler and starts its broadcaster.
func NewStateHandler(source StateSource, sink func(game.Action) bool) *StateHandler {
	h := &StateHandler{
		source:  source,
		sink:    sink,
		clients: make(map[*websocket.Conn]bool),
		stopCh:  make(chan struct{}),
	}
	go h.broadcast()
	return h
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}
		h.handleMessage(data)
	}
}

// handleMessage forwards one {"action":"..."} message. Malformed messages
// are logged and ignored.
func (h *StateHandler) handleMessage(data []byte) {
	var msg actionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Ignoring websocket message: %v", err)
		return
	}
	a, err := game.ParseAction(msg.Action)
	if err != nil {
		log.Printf("Ignoring websocket message: %v", err)
		return
	}
	if !h.sink(a) {
		log.Printf("Dropped %s action: game loop is busy", a)
	}
}

// Clients returns the number of connected clients.
func (h *StateHandler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast sends the state to all connected clients.
func (h *StateHandler) broadcast() {
	ticker := time.NewTicker(BroadcastInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
		}

		if h.Clients() == 0 {
			continue
		}

		msg, err := json.Marshal(h.source.LatestState())
		if err != nil {
			log.Printf("Failed to encode state: %v", err)
			continue
		}

		h.mu.RLock()
		for conn := range h.clients {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				// The reader loop notices the broken connection and unregisters it.
				conn.Close()
			}
		}
		h.mu.RUnlock()
	}
}

// Close stops the broadcaster and disconnects all clients.
func (h *StateHandler) Close() {
	h.closeOnce.Do(func() {
		close(h.stopCh)

		h.mu.RLock()
		defer h.mu.RUnlock()
		for conn := range h.clients {
			conn.Close()
		}
	})
}
