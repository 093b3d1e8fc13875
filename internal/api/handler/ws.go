package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"propchat/backend/internal/logging"
	"propchat/backend/internal/models"
	"propchat/backend/internal/roomhub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the HTTP connection and registers the session.
// Every connection automatically joins its own-id mailbox room; chat rooms
// are joined explicitly via joinChat events.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	identity := identityFrom(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	session := roomhub.NewWebSocketSession(
		uuid.New().String(),
		identity.ID,
		identity.Admin,
		conn,
		h.Hub,
		h.wsCfg,
		h.handleClientEvent,
	)

	h.Hub.Join(session, identity.ID)
	session.Run()
}

// handleClientEvent runs on the session's read goroutine. Failures are
// logged and the event dropped; the wire contract defines no error replies.
func (h *Handler) handleClientEvent(s *roomhub.WebSocketSession, evt models.Event) {
	ctx := context.Background()

	switch evt.Event {
	case models.EventJoinChat:
		var payload models.JoinChatPayload
		if err := json.Unmarshal(evt.Data, &payload); err != nil || payload.ChatID == "" {
			logging.L().Debug().Str("user_id", s.UserID()).Msg("malformed joinChat payload")
			return
		}

		role := models.RoleUser
		if s.IsAdmin() {
			role = models.RoleAdmin
		}
		// Room membership carries no authority; authorization happens here,
		// before the join, against the persisted session.
		if _, err := h.Service.GetChatForParticipant(ctx, s.UserID(), role, payload.ChatID); err != nil {
			logging.L().Warn().Err(err).
				Str("user_id", s.UserID()).
				Str("chat_id", payload.ChatID).
				Msg("joinChat rejected")
			return
		}

		h.Hub.Join(s, payload.ChatID)

	case models.EventCloseChat:
		var chatID string
		if err := json.Unmarshal(evt.Data, &chatID); err != nil || chatID == "" {
			logging.L().Debug().Str("user_id", s.UserID()).Msg("malformed closeChat payload")
			return
		}
		if !s.IsAdmin() {
			logging.L().Warn().Str("user_id", s.UserID()).Msg("closeChat from non-admin session")
			return
		}

		if _, err := h.Service.CloseChat(ctx, s.UserID(), chatID); err != nil {
			logging.L().Warn().Err(err).
				Str("user_id", s.UserID()).
				Str("chat_id", chatID).
				Msg("closeChat failed")
		}

	default:
		logging.L().Debug().
			Str("user_id", s.UserID()).
			Str("event", evt.Event).
			Msg("unknown client event")
	}
}
