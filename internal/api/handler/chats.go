package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"propchat/backend/internal/models"
)

type startChatInput struct {
	PropertyID string `json:"propertyId" binding:"required"`
}

type postMessageInput struct {
	ChatID  string `json:"chatId" binding:"required"`
	Content string `json:"content"`
	Sender  string `json:"sender" binding:"required"`
}

// StartChat handles POST /chats/start.
func (h *Handler) StartChat(c *gin.Context) {
	var input startChatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "propertyId is required")
		return
	}

	identity := identityFrom(c)
	session, err := h.Service.StartChat(c.Request.Context(), identity.ID, identity.Name, input.PropertyID)
	if err != nil {
		writeError(c, err)
		return
	}

	created(c, session)
}

// PostMessage handles POST /chats/message.
func (h *Handler) PostMessage(c *gin.Context) {
	var input postMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "chatId and sender are required")
		return
	}

	identity := identityFrom(c)
	role := models.Role(input.Sender)
	// The role claim in the body may never exceed what the token grants.
	if role == models.RoleAdmin && !identity.Admin {
		writeError(c, errForbiddenSentinel)
		return
	}

	msg, err := h.Service.PostMessage(c.Request.Context(), identity.ID, identity.Name, role, input.ChatID, input.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, msg)
}

// GetChat handles GET /chats/:chatId.
func (h *Handler) GetChat(c *gin.Context) {
	identity := identityFrom(c)
	session, err := h.Service.GetChatForParticipant(c.Request.Context(), identity.ID, identity.Role(), c.Param("chatId"))
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, session)
}

// CloseChat handles PUT /chats/:chatId/close.
func (h *Handler) CloseChat(c *gin.Context) {
	identity := identityFrom(c)
	session, err := h.Service.CloseChat(c.Request.Context(), identity.ID, c.Param("chatId"))
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, session)
}

// ListMyChats handles GET /chats.
func (h *Handler) ListMyChats(c *gin.Context) {
	identity := identityFrom(c)
	sessions, err := h.Service.ListChatsForUser(c.Request.Context(), identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, sessions)
}

// ListOpenChats handles GET /admin/chats/open.
func (h *Handler) ListOpenChats(c *gin.Context) {
	identity := identityFrom(c)
	sessions, err := h.Service.ListOpenChatsForAdmin(c.Request.Context(), identity.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	success(c, sessions)
}

func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response{Success: true, Data: data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, response{Success: true, Data: data})
}
