package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketMessage is the frame format on the shell's WebSocket channel.
// The shell sends "invoke" frames carrying an operation name and typed
// arguments; the bridge answers with a "result" or "error" frame bearing
// the same ID. "stats" frames are pushed to subscribed clients.
type WebSocketMessage struct {
	Type      string          `json:"type"` // "invoke", "result", "error", "stats", "auth", "ping", "pong"
	ID        string          `json:"id,omitempty"`
	Op        string          `json:"op,omitempty"`
	Args      json.RawMessage `json:"args,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
	Data      interface{}     `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Token     string          `json:"token,omitempty"`
}

// ClientConnection represents a connected WebSocket client.
type ClientConnection struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan WebSocketMessage
	Close chan bool
}

// WebSocketHub manages all connected WebSocket clients and the periodic
// host-stats push.
type WebSocketHub struct {
	clients     map[string]*ClientConnection
	subscribers map[string]bool
	broadcast   chan WebSocketMessage
	register    chan *ClientConnection
	unregister  chan string
	mu          sync.RWMutex
	interval    time.Duration
	done        chan bool
}

var wsHub *WebSocketHub

// InitWebSocketHub initializes the WebSocket hub. statsInterval controls
// how often host stats are pushed to subscribed clients.
func InitWebSocketHub(statsInterval time.Duration) *WebSocketHub {
	if statsInterval <= 0 {
		statsInterval = 2 * time.Second
	}
	wsHub = &WebSocketHub{
		clients:     make(map[string]*ClientConnection),
		subscribers: make(map[string]bool),
		broadcast:   make(chan WebSocketMessage, 256),
		register:    make(chan *ClientConnection),
		unregister:  make(chan string),
		interval:    statsInterval,
		done:        make(chan bool),
	}

	go wsHub.run()

	return wsHub
}

// run manages the hub's event loop.
func (h *WebSocketHub) run() {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client connected: %s (total: %d)", client.ID, total)

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				delete(h.subscribers, clientID)
				close(client.Send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			log.Printf("[WS] Client disconnected: %s (total: %d)", clientID, total)

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// Client's send channel is full, skip this message
				}
			}
			h.mu.RUnlock()

		case <-ticker.C:
			h.pushStats()
		}
	}
}

// pushStats sends a fresh host-stats snapshot to subscribed clients.
// The gopsutil probes run outside the lock; only the channel sends hold it.
func (h *WebSocketHub) pushStats() {
	h.mu.RLock()
	anySubscribed := len(h.subscribers) > 0
	h.mu.RUnlock()
	if !anySubscribed {
		return
	}

	msg := WebSocketMessage{
		Type:      "stats",
		Timestamp: time.Now(),
		Data:      GetHostStats(),
	}

	h.mu.RLock()
	for id, client := range h.clients {
		if !h.subscribers[id] {
			continue
		}
		select {
		case client.Send <- msg:
		default:
		}
	}
	h.mu.RUnlock()
}

// Register adds a new client to the hub.
func (h *WebSocketHub) Register(client *ClientConnection) {
	h.register <- client
}

// Unregister removes a client from the hub.
func (h *WebSocketHub) Unregister(clientID string) {
	h.unregister <- clientID
}

// Subscribe toggles the periodic stats push for a client.
func (h *WebSocketHub) Subscribe(clientID string, on bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if on {
		h.subscribers[clientID] = true
	} else {
		delete(h.subscribers, clientID)
	}
}

// Broadcast sends a message to all connected clients.
func (h *WebSocketHub) Broadcast(msg WebSocketMessage) {
	h.broadcast <- msg
}

// GetWebSocketHub returns the WebSocket hub.
func GetWebSocketHub() *WebSocketHub {
	return wsHub
}

// StopWebSocketHub notifies connected clients and stops the hub. The
// shutdown notice is best-effort; clients that miss it see the socket
// close instead.
func StopWebSocketHub() {
	if wsHub != nil {
		wsHub.Broadcast(WebSocketMessage{Type: "shutdown", Timestamp: time.Now()})
		wsHub.done <- true
	}
}

// DispatchInvoke routes an invoke frame to the matching bridge operation.
// The operation names and argument shapes mirror the HTTP surface.
func DispatchInvoke(op string, args json.RawMessage) (interface{}, error) {
	switch op {
	case "greet":
		var a struct {
			Name string `json:"name"`
		}
		if err := unmarshalArgs(args, &a); err != nil {
			return nil, err
		}
		return Greet(a.Name), nil

	case "get_system_info":
		return GetSystemInfo(), nil

	case "get_host_info":
		return GetHostInfo(), nil

	case "get_host_stats":
		return GetHostStats(), nil

	case "read_directory":
		var a struct {
			Path string `json:"path"`
		}
		if err := unmarshalArgs(args, &a); err != nil {
			return nil, err
		}
		return ReadDirectory(a.Path)

	case "read_file_content":
		var a struct {
			Path string `json:"path"`
		}
		if err := unmarshalArgs(args, &a); err != nil {
			return nil, err
		}
		return ReadFileContent(a.Path)

	case "write_file_content":
		var a struct {
			Path    string `json:"path"`
			Content string `json:"content"`
		}
		if err := unmarshalArgs(args, &a); err != nil {
			return nil, err
		}
		return nil, WriteFileContent(a.Path, a.Content)

	case "get_home_directory":
		return HomeDirectory()

	default:
		return nil, fmt.Errorf("unknown operation: %s", op)
	}
}

func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		return fmt.Errorf("missing arguments")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %v", err)
	}
	return nil
}
