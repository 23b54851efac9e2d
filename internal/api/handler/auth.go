package handler

import (
	"civicconnect/backend/internal/models"
	"civicconnect/backend/internal/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Login(c *gin.Context) {
	h.login(c, models.RoleCitizen, "notice.login.title", "notice.login.description", "notice.login_failed.description")
}

// Signup starts a citizen session. Citizens have no stored accounts, so this
// differs from Login only in its notice.
func (h *Handler) Signup(c *gin.Context) {
	h.login(c, models.RoleCitizen, "notice.signup.title", "notice.signup.description", "notice.login_failed.description")
}

func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, models.RoleAdmin, "notice.admin_login.title", "notice.admin_login.description", "notice.admin_login_failed.description")
}

func (h *Handler) login(c *gin.Context, role models.Role, titleKey, descKey, failedKey string) {
	var creds session.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		creds = session.Credentials{}
	}

	id, err := h.Sessions.Login(c.Request.Context(), role, creds)
	if err != nil {
		n := h.notice(c, "notice.login_failed.title", failedKey)
		h.respondError(c, err, &n)
		return
	}

	token, err := h.Tokens.Issue(id)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"identity": id,
		"notice":   h.notice(c, titleKey, descKey),
	})
}

func (h *Handler) Logout(c *gin.Context) {
	id := identity(c)
	if err := h.Sessions.Logout(c.Request.Context(), id.Role); err != nil {
		h.respondError(c, err, nil)
		return
	}

	descKey := "notice.logout.description"
	if id.Role == models.RoleAdmin {
		descKey = "notice.admin_logout.description"
	}
	c.JSON(http.StatusOK, gin.H{"notice": h.notice(c, "notice.logout.title", descKey)})
}
