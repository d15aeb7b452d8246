package api

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/seenimoa/quantsignal/internal/metrics"
	"github.com/seenimoa/quantsignal/internal/report"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Upper bound on one regenerate cycle.
	cycleTimeout = 5 * time.Second

	// Regenerate requests allowed per client: a burst of 4, then one per 250ms.
	regenerateEvery = 250 * time.Millisecond
	regenerateBurst = 4
)

// RegenerateRequest is the payload of a client "regenerate" message.
type RegenerateRequest struct {
	Sensitivity float64 `json:"sensitivity"`
	Stock       string  `json:"stock"`
}

// SignalsPayload is the payload of a server "signals" message: the
// re-rendered page fragments for one cycle.
type SignalsPayload struct {
	report.Fragments
	CycleID          string  `json:"cycle_id"`
	GeneratedAt      string  `json:"generated_at"`
	Sensitivity      float64 `json:"sensitivity"`
	SensitivityLabel string  `json:"sensitivity_label"`
}

// inbound is a client message whose data is decoded per type.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (s *Server) upgrader() websocket.Upgrader {
	origins := s.cfg.API.CORSOrigins
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if len(origins) == 0 || slices.Contains(origins, "*") {
				return true
			}
			return slices.Contains(origins, r.Header.Get("Origin"))
		},
	}
}

// handleWebSocket upgrades the connection. Each "regenerate" message runs
// a full cycle and the fragments go back to that client only.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	up := s.upgrader()
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := s.wsHub.NewClient()
	if !s.wsHub.Register(client) {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	s.logger.Debug().Int("clients", s.wsHub.ClientCount()).Msg("websocket client connected")

	// Start reader and writer goroutines
	go s.wsWritePump(conn, client)
	go s.wsReadPump(conn, client)
}

// wsReadPump reads client messages until the connection fails.
func (s *Server) wsReadPump(conn *websocket.Conn, client *WSClient) {
	defer func() {
		client.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	limiter := rate.NewLimiter(rate.Every(regenerateEvery), regenerateBurst)

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.logger.Warn().Err(err).Msg("websocket read error")
			}
			return
		}

		var msg inbound
		if err := json.Unmarshal(message, &msg); err != nil {
			client.hub.SendTo(client, errorMessage("malformed message"))
			continue
		}

		switch msg.Type {
		case MsgRegenerate:
			if !limiter.Allow() {
				client.hub.SendTo(client, errorMessage("too many regenerate requests"))
				continue
			}
			client.hub.SendTo(client, s.regenerate(msg.Data))
		case MsgPing:
			client.hub.SendTo(client, WSMessage{Type: MsgPong})
		}
	}
}

// regenerate runs one cycle for a websocket request and returns the reply.
func (s *Server) regenerate(raw json.RawMessage) WSMessage {
	var req RegenerateRequest
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &req); err != nil {
			return errorMessage("malformed regenerate request")
		}
	}

	c := controls{Sensitivity: req.Sensitivity, Stock: req.Stock}
	ctx, cancel := context.WithTimeout(context.Background(), cycleTimeout)
	defer cancel()

	data, err := s.runCycle(ctx, metrics.TriggerWebSocket, c)
	if err != nil {
		if isBadInput(err) {
			return errorMessage(err.Error())
		}
		s.logger.Error().Err(err).Msg("websocket regenerate failed")
		return errorMessage("regenerate failed")
	}

	frags, err := report.RenderFragments(data)
	if err != nil {
		s.logger.Error().Err(err).Msg("websocket render failed")
		return errorMessage("render failed")
	}
	return WSMessage{
		Type: MsgSignals,
		Data: SignalsPayload{
			Fragments:        frags,
			CycleID:          data.CycleID,
			GeneratedAt:      data.GeneratedAt,
			Sensitivity:      data.Sensitivity,
			SensitivityLabel: data.SensitivityLabel,
		},
	}
}

func errorMessage(msg string) WSMessage {
	return WSMessage{Type: MsgError, Data: map[string]string{"error": msg}}
}

// wsWritePump writes queued messages and keeps the connection alive with
// pings. It exits when the send queue is closed.
func (s *Server) wsWritePump(conn *websocket.Conn, client *WSClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				s.logger.Debug().Err(err).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
