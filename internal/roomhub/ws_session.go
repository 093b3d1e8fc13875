package roomhub

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"propchat/backend/internal/config"
	"propchat/backend/internal/logging"
	"propchat/backend/internal/models"
)

// EventHandler processes a decoded inbound event from one session.
type EventHandler func(s *WebSocketSession, evt models.Event)

// WebSocketSession implements Session over a gorilla/websocket connection.
type WebSocketSession struct {
	id     string
	userID string
	admin  bool

	conn    *websocket.Conn
	hub     Hub
	cfg     config.WebSocketConfig
	handler EventHandler

	send chan models.Event

	// mu guards closed and serializes Send against Close: the hub may still
	// broadcast to a handle snapshotted just before its disconnect.
	mu     sync.Mutex
	closed bool
}

// NewWebSocketSession wraps an upgraded connection. handler receives every
// decoded inbound event; it runs on the session's read goroutine. Zero
// config values fall back to working defaults.
func NewWebSocketSession(id, userID string, admin bool, conn *websocket.Conn, hub Hub, cfg config.WebSocketConfig, handler EventHandler) *WebSocketSession {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 256
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 60 * time.Second
	}
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = 10 * time.Second
	}
	if cfg.MaxMessageSize <= 0 {
		cfg.MaxMessageSize = 4096
	}
	return &WebSocketSession{
		id:      id,
		userID:  userID,
		admin:   admin,
		conn:    conn,
		hub:     hub,
		cfg:     cfg,
		handler: handler,
		send:    make(chan models.Event, cfg.SendBuffer),
	}
}

func (s *WebSocketSession) ID() string     { return s.id }
func (s *WebSocketSession) UserID() string { return s.userID }
func (s *WebSocketSession) IsAdmin() bool  { return s.admin }

// Send queues an event without blocking the hub. After Close it reports
// ErrSendBufferFull instead of touching the closed channel.
func (s *WebSocketSession) Send(evt models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSendBufferFull
	}
	select {
	case s.send <- evt:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close shuts down the outbound channel, which stops the write pump.
// The read pump stops on its own once the connection closes. Safe to call
// more than once and concurrently with Send.
func (s *WebSocketSession) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.send)
}

// Run starts the read and write pumps.
func (s *WebSocketSession) Run() {
	go s.writePump()
	go s.readPump()
}

func (s *WebSocketSession) readPump() {
	defer func() {
		s.hub.LeaveAll(s)
		s.Close()
		s.conn.Close()
	}()

	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.L().Warn().Err(err).Str("user_id", s.userID).Msg("websocket read error")
			}
			break
		}

		var evt models.Event
		if err := json.Unmarshal(message, &evt); err != nil {
			logging.L().Debug().Err(err).Str("user_id", s.userID).Msg("discarding malformed client event")
			continue
		}

		if s.handler != nil {
			s.handler(s, evt)
		}
	}
}

func (s *WebSocketSession) writePump() {
	ticker := time.NewTicker(pingPeriod(s.cfg.PongWait))

	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case evt, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(evt)
			if err != nil {
				logging.L().Error().Err(err).Str("user_id", s.userID).Msg("failed to encode outbound event")
				continue
			}

			// One frame per event: clients decode each text message as a
			// single envelope.
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func pingPeriod(pongWait time.Duration) time.Duration {
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	return (pongWait * 9) / 10
}
