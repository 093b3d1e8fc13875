package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"propchat/backend/internal/config"
	"propchat/backend/internal/models"
	"propchat/backend/internal/roomhub"
)

// ChatService is the slice of the session service the HTTP layer consumes.
type ChatService interface {
	StartChat(ctx context.Context, userID, userName, propertyID string) (*models.ChatSession, error)
	PostMessage(ctx context.Context, callerID, callerName string, role models.Role, chatID, content string) (*models.ChatMessage, error)
	CloseChat(ctx context.Context, adminID, chatID string) (*models.ChatSession, error)
	GetChatForParticipant(ctx context.Context, callerID string, role models.Role, chatID string) (*models.ChatSession, error)
	ListChatsForUser(ctx context.Context, userID string) ([]models.ChatSession, error)
	ListOpenChatsForAdmin(ctx context.Context, adminID string) ([]models.ChatSession, error)
}

// Handler holds the HTTP and websocket entry points.
type Handler struct {
	Service ChatService
	Hub     roomhub.Hub

	jwtSecret []byte
	wsCfg     config.WebSocketConfig
}

func NewHandler(svc ChatService, hub roomhub.Hub, authCfg config.AuthConfig, wsCfg config.WebSocketConfig) *Handler {
	return &Handler{
		Service:   svc,
		Hub:       hub,
		jwtSecret: []byte(authCfg.JWTSecret),
		wsCfg:     wsCfg,
	}
}

// Register mounts all routes on the gin engine.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	r.GET("/ws", h.RequireAuth(), h.ServeWebSocket)

	chats := r.Group("/chats", h.RequireAuth())
	{
		chats.POST("/start", h.StartChat)
		chats.POST("/message", h.PostMessage)
		chats.GET("", h.ListMyChats)
		chats.GET("/:chatId", h.GetChat)
		chats.PUT("/:chatId/close", h.RequireAdmin(), h.CloseChat)
	}

	admin := r.Group("/admin", h.RequireAuth(), h.RequireAdmin())
	{
		admin.GET("/chats/open", h.ListOpenChats)
	}
}
