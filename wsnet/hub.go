package wsnet

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// NodeID names a logical node's WebSocket connection.
type NodeID string

// Frame is the JSON envelope written to and read from a node's connection.
type Frame[M any] struct {
	Message M `json:"message"`
}

// Receiver is anything that can absorb a decoded message, satisfied by
// *gossip.UniformGossip and *gossip.PreferentialGossip's Receive method.
type Receiver[M any] interface {
	Receive(message *M) error
}

// Hub tracks one WebSocket connection per NodeID and implements
// gossip.Delivery[M, NodeID] over them.
type Hub[M any] struct {
	mu          sync.RWMutex
	connections map[NodeID]*websocket.Conn
	upgrader    websocket.Upgrader
	logger      *zap.Logger
}

// NewHub creates an empty Hub. Pass a nil logger to get a no-op logger.
func NewHub[M any](logger *zap.Logger) *Hub[M] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub[M]{
		connections: make(map[NodeID]*websocket.Conn),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Connect upgrades an incoming HTTP request to a WebSocket connection and
// registers it under nodeID, replacing any prior connection for that node.
func (h *Hub[M]) Connect(nodeID NodeID, w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("wsnet: upgrade: %w", err)
	}
	h.mu.Lock()
	if old, ok := h.connections[nodeID]; ok {
		old.Close()
	}
	h.connections[nodeID] = conn
	h.mu.Unlock()
	return nil
}

// Disconnect closes and forgets nodeID's connection, if any.
func (h *Hub[M]) Disconnect(nodeID NodeID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conn, ok := h.connections[nodeID]; ok {
		conn.Close()
		delete(h.connections, nodeID)
	}
}

// Deliver writes message as a JSON frame to each connected endpoint.
// Endpoints with no live connection (the browser tab hasn't opened yet, or
// has gone away) are skipped rather than treated as an error - a missing
// visualization client is not the gossip network's problem.
func (h *Hub[M]) Deliver(message *M, endpoints []NodeID) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range endpoints {
		conn, ok := h.connections[id]
		if !ok {
			h.logger.Debug("wsnet: no connection for node, dropping", zap.String("node", string(id)))
			continue
		}
		if err := conn.WriteJSON(Frame[M]{Message: *message}); err != nil {
			return fmt.Errorf("wsnet: write to %s: %w", id, err)
		}
	}
	return nil
}

// Tick cooperatively processes at most one pending inbound frame for
// nodeID, handing it to receiver. It reports whether a frame was processed
// so a caller driving several nodes from one goroutine can round-robin
// between them instead of blocking on any single connection.
func (h *Hub[M]) Tick(nodeID NodeID, receiver Receiver[M]) (bool, error) {
	h.mu.RLock()
	conn, ok := h.connections[nodeID]
	h.mu.RUnlock()
	if !ok {
		return false, nil
	}

	if err := conn.SetReadDeadline(time.Now()); err != nil {
		return false, fmt.Errorf("wsnet: set read deadline: %w", err)
	}
	var frame Frame[M]
	if err := conn.ReadJSON(&frame); err != nil {
		if ne, isNetErr := err.(interface{ Timeout() bool }); isNetErr && ne.Timeout() {
			return false, nil
		}
		return false, fmt.Errorf("wsnet: read from %s: %w", nodeID, err)
	}
	return true, receiver.Receive(&frame.Message)
}
