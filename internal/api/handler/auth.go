package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"propchat/backend/internal/models"
)

const identityKey = "identity"

// Identity is the already-authenticated caller the upstream auth service
// encodes into the token. The chat core never derives roles on its own.
type Identity struct {
	ID    string
	Name  string
	Admin bool
}

// Role returns the coarse role the identity acts as.
func (id Identity) Role() models.Role {
	if id.Admin {
		return models.RoleAdmin
	}
	return models.RoleUser
}

// RequireAuth validates the bearer token (header or, for websocket
// handshakes, the token query parameter) and stores the caller identity in
// the request context.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token missing"})
			return
		}

		identity, err := h.parseIdentity(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireAdmin rejects non-staff callers. Must run after RequireAuth.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !identityFrom(c).Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

func (h *Handler) parseIdentity(tokenString string) (Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fmt.Errorf("unexpected claims type")
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return Identity{}, fmt.Errorf("token missing user_id claim")
	}
	name, _ := claims["name"].(string)
	admin, _ := claims["is_admin"].(bool)

	return Identity{ID: userID, Name: name, Admin: admin}, nil
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	// Browser websocket clients cannot set headers on the handshake.
	return c.Query("token")
}

func identityFrom(c *gin.Context) Identity {
	if v, exists := c.Get(identityKey); exists {
		if id, ok := v.(Identity); ok {
			return id
		}
	}
	return Identity{}
}
