package websocket

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"
)

// ErrHubClosed is returned when registering after Close
var ErrHubClosed = errors.New("hub is closed")

// Connection is one live queue viewer as seen by the hub. Send must not block.
type Connection interface {
	ID() string
	Send(data []byte) error
	Close()
}

// Hub keeps the registry of live queue viewers and fans events out to them.
// It is created at server start and torn down with Close at shutdown.
type Hub struct {
	mu     sync.RWMutex
	conns  map[string]Connection
	closed bool

	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		conns:  make(map[string]Connection),
		logger: logger,
	}
}

// Register adds a connection. Registering an id twice is a no-op.
func (h *Hub) Register(conn Connection) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrHubClosed
	}
	if _, exists := h.conns[conn.ID()]; exists {
		return nil
	}
	h.conns[conn.ID()] = conn

	h.logger.Debug().
		Str("connID", conn.ID()).
		Int("viewers", len(h.conns)).
		Msg("Viewer registered")
	return nil
}

// Unregister removes and closes a connection. Unknown connections are ignored.
func (h *Hub) Unregister(conn Connection) {
	h.mu.Lock()
	registered, exists := h.conns[conn.ID()]
	if exists {
		delete(h.conns, conn.ID())
	}
	remaining := len(h.conns)
	h.mu.Unlock()

	if !exists {
		return
	}
	registered.Close()

	h.logger.Debug().
		Str("connID", conn.ID()).
		Int("viewers", remaining).
		Msg("Viewer unregistered")
}

// Broadcast serializes event and offers it to every registered connection.
// Delivery is best-effort: a connection that cannot take the message is
// dropped without affecting the others, and the call never waits on a viewer.
func (h *Hub) Broadcast(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal event for broadcast")
		return
	}

	h.mu.RLock()
	targets := make([]Connection, 0, len(h.conns))
	for _, conn := range h.conns {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	var failed []Connection
	for _, conn := range targets {
		if err := conn.Send(data); err != nil {
			h.logger.Warn().Err(err).Str("connID", conn.ID()).Msg("Dropping viewer after failed delivery")
			failed = append(failed, conn)
		}
	}

	for _, conn := range failed {
		h.Unregister(conn)
	}

	h.logger.Debug().
		Int("delivered", len(targets)-len(failed)).
		Int("failed", len(failed)).
		Msg("Event broadcast")
}

// Count returns the number of registered viewers
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close unregisters and closes every connection; later Register calls fail.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	conns := h.conns
	h.conns = make(map[string]Connection)
	h.mu.Unlock()

	for _, conn := range conns {
		conn.Close()
	}
	h.logger.Info().Int("viewers", len(conns)).Msg("Hub closed")
}
