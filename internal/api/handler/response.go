package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"propchat/backend/internal/chat"
	"propchat/backend/internal/logging"
)

// errForbiddenSentinel lets transport-level role checks reuse the same
// error mapping as the service.
var errForbiddenSentinel = chat.ErrForbidden

// response is the standard API envelope.
type response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorInfo `json:"error,omitempty"`
}

type errorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps the service error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, "INVALID_INPUT", err.Error())
	case errors.Is(err, chat.ErrChatNotFound), errors.Is(err, chat.ErrPropertyNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, chat.ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, chat.ErrChatClosed):
		respondError(c, http.StatusConflict, "CHAT_CLOSED", "chat is closed")
	default:
		logging.L().Error().Err(err).Str("path", c.FullPath()).Msg("unhandled service error")
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func badRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, "INVALID_INPUT", message)
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, response{
		Success: false,
		Error:   &errorInfo{Code: code, Message: message},
	})
}
