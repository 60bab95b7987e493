package host

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Signal is one message pushed to subscribed host pages.
type Signal struct {
	Type   string  `json:"type"` // "ready" or "height"
	Key    string  `json:"key"`
	Height float64 `json:"height,omitempty"`
}

// WSNotifier fans render signals out to websocket subscribers. The dev
// server uses it as the concrete host signaling channel: the served page
// subscribes and resizes each widget frame as height signals arrive.
type WSNotifier struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// NewWSNotifier creates an empty notifier hub.
func NewWSNotifier() *WSNotifier {
	return &WSNotifier{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dev server serves the subscribing page itself.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
}

// Subscribe upgrades the request and registers the connection. The
// connection is dropped on the first write failure.
func (n *WSNotifier) Subscribe(w http.ResponseWriter, r *http.Request) error {
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.conns[conn] = true
	n.mu.Unlock()

	// Drain incoming frames so pings and close handshakes are processed.
	go func() {
		defer n.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

// NotifyReady broadcasts a ready signal for the widget.
func (n *WSNotifier) NotifyReady(key string) {
	n.broadcast(Signal{Type: "ready", Key: key})
}

// NotifyHeight broadcasts the widget's rendered height.
func (n *WSNotifier) NotifyHeight(key string, height float64) {
	n.broadcast(Signal{Type: "height", Key: key, Height: height})
}

// Close shuts down all subscriber connections.
func (n *WSNotifier) Close() {
	n.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(n.conns))
	for conn := range n.conns {
		conns = append(conns, conn)
	}
	n.conns = make(map[*websocket.Conn]bool)
	n.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
}

func (n *WSNotifier) broadcast(sig Signal) {
	n.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(n.conns))
	for conn := range n.conns {
		conns = append(conns, conn)
	}
	n.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(sig); err != nil {
			n.drop(conn)
		}
	}
}

func (n *WSNotifier) drop(conn *websocket.Conn) {
	n.mu.Lock()
	delete(n.conns, conn)
	n.mu.Unlock()
	conn.Close()
}
