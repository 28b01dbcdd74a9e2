package stream

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mitchelldurbincs/friendseek/internal/sim/core"
)

// Message types sent to viewers
const (
	TypeConfig   = "config"
	TypeSnapshot = "snapshot"
)

const writeWait = 5 * time.Second

// Message is the JSON envelope every frame is wrapped in
type Message struct {
	Type     string         `json:"type"`
	GridSize int            `json:"grid_size,omitempty"`
	Snapshot *core.Snapshot `json:"snapshot,omitempty"`
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) send(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Hub broadcasts snapshots to every connected websocket viewer. It is a
// sim.Renderer.
type Hub struct {
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    *core.Snapshot
}

// NewHub creates an empty hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:   logger.With().Str("component", "StreamHub").Logger(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  make(map[*client]struct{}),
	}
}

// Handler upgrades the request and keeps the viewer registered until it
// disconnects. A new viewer first gets a config message and then the latest
// snapshot, if any.
func (h *Hub) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn().Err(err).Msg("Websocket upgrade failed")
			return
		}
		c := &client{conn: conn}

		h.mu.Lock()
		h.clients[c] = struct{}{}
		last := h.last
		h.mu.Unlock()

		h.logger.Debug().Str("remote", r.RemoteAddr).Msg("Viewer connected")

		if err := c.send(Message{Type: TypeConfig, GridSize: core.GridSize}); err != nil {
			h.drop(c)
			return
		}
		if last != nil {
			if err := c.send(Message{Type: TypeSnapshot, Snapshot: last}); err != nil {
				h.drop(c)
				return
			}
		}

		// Viewers have nothing to say; read only to notice the disconnect.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		h.drop(c)
	})
}

// Render implements sim.Renderer. Viewers that fail to receive the frame are
// disconnected; the simulation is never held up by them.
func (h *Hub) Render(s core.Snapshot) error {
	snap := s
	snap.Agents = append([]core.Coordinate(nil), s.Agents...)

	h.mu.Lock()
	h.last = &snap
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	msg := Message{Type: TypeSnapshot, Snapshot: &snap}
	for _, c := range list {
		if err := c.send(msg); err != nil {
			h.logger.Debug().Err(err).Msg("Dropping viewer after send error")
			h.drop(c)
		}
	}
	return nil
}

// ClientCount returns the number of connected viewers
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.conn.Close()
	}
}

// Close disconnects every viewer
func (h *Hub) Close() {
	h.mu.Lock()
	list := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		list = append(list, c)
	}
	h.mu.Unlock()

	for _, c := range list {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "simulation ended"),
			time.Now().Add(writeWait))
		c.mu.Unlock()
		h.drop(c)
	}
}

// Serve listens on addr and serves the hub at /ws until ctx is done
func (h *Hub) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", h.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), writeWait)
		defer cancel()
		h.Close()
		srv.Shutdown(shutdownCtx)
	}()

	h.logger.Info().Str("addr", addr).Msg("Streaming snapshots over websocket")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
