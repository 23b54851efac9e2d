package handler

import (
	"civicconnect/backend/internal/models"
	"civicconnect/backend/internal/session"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	// Browsers cannot set headers on a websocket handshake.
	return c.Query("token")
}

// authenticate resolves the request's token to an identity whose session is
// still open. With roles given, the identity must hold one of them.
func (h *Handler) authenticate(c *gin.Context, roles ...models.Role) (session.Identity, error) {
	token := bearerToken(c)
	if token == "" {
		return session.Identity{}, session.ErrNoSession
	}
	id, err := h.Tokens.Parse(token)
	if err != nil {
		return session.Identity{}, err
	}
	if len(roles) > 0 && !hasRole(id.Role, roles) {
		return session.Identity{}, session.ErrNoSession
	}

	current, err := h.Sessions.Current(c.Request.Context(), id.Role)
	if err != nil {
		return session.Identity{}, err
	}
	if current.Username != id.Username {
		// Someone else has logged in to this role since the token was issued.
		return session.Identity{}, session.ErrNoSession
	}
	return current, nil
}

func hasRole(role models.Role, roles []models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// RequireSession rejects requests without a live session for one of roles
// (any role when none are given).
func (h *Handler) RequireSession(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := h.authenticate(c, roles...)
		if err != nil {
			h.respondError(c, err, nil)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

func identity(c *gin.Context) session.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(session.Identity); ok {
			return id
		}
	}
	return session.Identity{}
}
