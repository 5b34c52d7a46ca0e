package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/soundview/internal/bridge"
	"github.com/nerrad567/soundview/internal/control"
	"github.com/nerrad567/soundview/internal/infrastructure/config"
	"github.com/nerrad567/soundview/internal/infrastructure/logging"
	"github.com/nerrad567/soundview/internal/player"
)

// wsSendBufferSize is the per-client outbound message buffer size.
const wsSendBufferSize = 256

var _ bridge.Sink = (*Hub)(nil)

// Hub manages viewer connections and fans update envelopes out to them.
//
// The channel is push-only: viewers receive envelopes and send nothing
// back. On connect, each new viewer gets a full state replay — per-player
// value envelopes followed by one groups envelope — so it never has to
// poll for its initial render.
type Hub struct {
	cfg     config.WebSocketConfig
	logger  *logging.Logger
	adapter *player.Adapter
	clients map[*WSClient]struct{}
	mu      sync.RWMutex
}

// WSClient represents a connected viewer.
type WSClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// upgrader configures the WebSocket upgrader.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		// Origin checking is handled by CORS middleware
		return true
	},
}

// NewHub creates a new WebSocket hub.
func NewHub(cfg config.WebSocketConfig, logger *logging.Logger, adapter *player.Adapter) *Hub {
	return &Hub{
		cfg:     cfg,
		logger:  logger,
		adapter: adapter,
		clients: make(map[*WSClient]struct{}),
	}
}

// Run starts the hub's main loop. It blocks until the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Register adds a client to the hub and replays the current state to it.
func (h *Hub) Register(client *WSClient) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("viewer connected", "clients", h.ClientCount())

	h.replaySnapshot(client)
}

// Unregister removes a client from the hub.
// Only the goroutine that successfully removes the client from the map
// closes the send channel, preventing double-close panics during shutdown.
func (h *Hub) Unregister(client *WSClient) {
	h.mu.Lock()
	_, existed := h.clients[client]
	delete(h.clients, client)
	h.mu.Unlock()

	if existed {
		close(client.send)
	}
	h.logger.Debug("viewer disconnected", "clients", h.ClientCount())
}

// Broadcast serializes the envelope once and sends it to every connected
// viewer. Viewers that have gone away or fallen behind are skipped, never
// closed here; their pumps handle eventual cleanup.
func (h *Hub) Broadcast(env bridge.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("failed to marshal envelope", "type", env.Type, "error", err)
		return
	}

	// Snapshot client list under hub lock, then release before sending
	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.trySend(data)
	}
	if len(clients) > 0 {
		h.logger.Debug("envelope broadcast", "type", env.Type, "recipients", len(clients))
	}
}

// replaySnapshot pushes the full current state to one viewer: for each
// player its volume, muted, state, and track envelopes, then a single
// trailing groups envelope. The write pump preserves this order.
func (h *Hub) replaySnapshot(client *WSClient) {
	for _, p := range h.adapter.AllPlayers() {
		client.sendEnvelope(bridge.NewVolume(p.UUID, p.Volume))
		client.sendEnvelope(bridge.NewMuted(p.UUID, p.Muted))
		client.sendEnvelope(bridge.NewState(p.UUID, control.TransportState(p.State)))
		if d, ok := h.adapter.FindDevice(p.UUID); ok {
			client.sendEnvelope(bridge.NewTrack(p.UUID, d.Track()))
		}
	}
	client.sendEnvelope(bridge.NewGroups(h.adapter.AllGroups()))
}

// ClientCount returns the number of connected viewers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// closeAll disconnects all clients and closes their send channels
// so writePump goroutines can exit cleanly.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
		if client.conn != nil {
			client.conn.Close()
		}
		delete(h.clients, client)
	}
}

// handleWebSocket upgrades the HTTP connection and attaches the viewer to
// the hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &WSClient{
		hub:  s.hub,
		conn: conn,
		send: make(chan []byte, wsSendBufferSize),
	}

	// Pumps first so the registration replay has a consumer.
	go client.writePump(s.wsCfg)
	go client.readPump(s.wsCfg)

	s.hub.Register(client)
}

// readPump drains the connection. Viewers send nothing meaningful on this
// channel; reading is still required to process control frames and detect
// closure.
func (c *WSClient) readPump(cfg config.WebSocketConfig) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(int64(cfg.MaxMessageSize))
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	pongWait := time.Duration(cfg.PongTimeout) * time.Second
	//nolint:errcheck // Best-effort deadline on connection setup
	c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("websocket read error", "error", err)
			} else {
				c.hub.logger.Debug("websocket closed", "error", err)
			}
			return
		}
		// Any client message resets the read deadline (keeps connection alive
		// even if browser doesn't respond to protocol-level pings).
		//nolint:errcheck // Best-effort deadline reset
		c.conn.SetReadDeadline(time.Now().Add(pingInterval + pongWait))
	}
}

// writePump writes messages to the WebSocket connection.
func (c *WSClient) writePump(cfg config.WebSocketConfig) {
	pingInterval := time.Duration(cfg.PingInterval) * time.Second
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	pongWait := time.Duration(cfg.PongTimeout) * time.Second

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				// Hub closed the channel
				//nolint:errcheck // Best-effort close message
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			//nolint:errcheck // Best-effort deadline; write error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			//nolint:errcheck // Best-effort deadline; ping error caught below
			c.conn.SetWriteDeadline(time.Now().Add(pongWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend attempts to send data to the client's send channel.
// It silently handles closed channels (client disconnected during broadcast)
// and full buffers (slow client).
func (c *WSClient) trySend(data []byte) {
	defer func() {
		recover() //nolint:errcheck // Absorb send-on-closed-channel panic
	}()

	select {
	case c.send <- data:
	default:
		// Client buffer full, skip
	}
}

// sendEnvelope marshals one envelope and queues it for this client only.
func (c *WSClient) sendEnvelope(env bridge.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	c.trySend(data)
}
