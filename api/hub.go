package api

import (
	"context"
	"sync"
)

// ============================================================
// WebSocket Hub
// ============================================================

// Message types exchanged over the WebSocket.
const (
	MsgRegenerate = "regenerate"
	MsgSignals    = "signals"
	MsgPing       = "ping"
	MsgPong       = "pong"
	MsgError      = "error"
	MsgShutdown   = "shutdown"
)

// WSMessage is a message sent over WebSocket connections.
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub tracks WebSocket connections. Replies go to a single client via
// SendTo; Broadcast is used for server-wide notices.
type WSHub struct {
	mu        sync.RWMutex
	clients   map[*WSClient]bool
	closed    bool
	broadcast chan WSMessage
}

// WSClient represents a single WebSocket connection.
type WSClient struct {
	hub  *WSHub
	send chan WSMessage
}

// NewWSHub creates a new WebSocket hub.
func NewWSHub() *WSHub {
	return &WSHub{
		clients:   make(map[*WSClient]bool),
		broadcast: make(chan WSMessage, 16),
	}
}

// NewClient returns a client bound to h with a buffered send queue.
func (h *WSHub) NewClient() *WSClient {
	return &WSClient{hub: h, send: make(chan WSMessage, 32)}
}

// Run delivers broadcasts until ctx is done, then flushes pending
// broadcasts and closes every client's send queue.
func (h *WSHub) Run(ctx context.Context) {
	for {
		select {
		case msg := <-h.broadcast:
			h.deliver(msg)
		case <-ctx.Done():
			for {
				select {
				case msg := <-h.broadcast:
					h.deliver(msg)
				default:
					h.closeAll()
					return
				}
			}
		}
	}
}

func (h *WSHub) deliver(msg WSMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- msg:
		default:
			// Slow client; disconnect
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *WSHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
}

// Broadcast queues a message for all connected clients. It drops the
// message if the queue is full.
func (h *WSHub) Broadcast(msg WSMessage) {
	select {
	case h.broadcast <- msg:
	default:
	}
}

// SendTo queues msg for one client. It reports false if the client is gone
// or its queue is full.
func (h *WSHub) SendTo(client *WSClient, msg WSMessage) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if !h.clients[client] {
		return false
	}
	select {
	case client.send <- msg:
		return true
	default:
		return false
	}
}

// ClientCount returns the number of connected WebSocket clients.
func (h *WSHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Register adds a client to the hub. It reports false once the hub has
// shut down.
func (h *WSHub) Register(client *WSClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[client] = true
	return true
}

// Unregister removes a client from the hub and closes its send queue.
func (h *WSHub) Unregister(client *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
	}
}
