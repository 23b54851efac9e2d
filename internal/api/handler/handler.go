package handler

import (
	"civicconnect/backend/internal/apperrors"
	"civicconnect/backend/internal/complaint"
	"civicconnect/backend/internal/hub"
	"civicconnect/backend/internal/lifecycle"
	"civicconnect/backend/internal/localization"
	"civicconnect/backend/internal/logger"
	"civicconnect/backend/internal/models"
	"civicconnect/backend/internal/session"
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// Handler holds what the HTTP routes need.
type Handler struct {
	Sessions   *session.Manager
	Tokens     *session.Tokens
	Complaints *complaint.Service
	Hub        *hub.Manager
	Localizer  *localization.Localizer

	log *slog.Logger
}

func NewHandler(sessions *session.Manager, tokens *session.Tokens, complaints *complaint.Service, h *hub.Manager, l *localization.Localizer) *Handler {
	if l == nil {
		l = localization.Default()
	}
	return &Handler{
		Sessions:   sessions,
		Tokens:     tokens,
		Complaints: complaints,
		Hub:        h,
		Localizer:  l,
		log:        logger.WithComponent("http"),
	}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	api := r.Group("/api")
	api.POST("/login", h.Login)
	api.POST("/signup", h.Signup)
	api.POST("/admin/login", h.AdminLogin)
	api.GET("/statuses", h.Statuses)
	api.GET("/categories", h.Categories)

	api.POST("/logout", h.RequireSession(), h.Logout)

	citizen := api.Group("", h.RequireSession(models.RoleCitizen))
	citizen.GET("/complaints", h.CitizenComplaints)
	citizen.POST("/complaints", h.SubmitComplaint)

	admin := api.Group("/admin", h.RequireSession(models.RoleAdmin))
	admin.GET("/complaints", h.AdminComplaints)
	admin.PATCH("/complaints/:id/status", h.UpdateStatus)

	r.GET("/ws", h.ServeWebSocket)
}

// Notice is the title and description a dashboard shows as a toast.
type Notice struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func lang(c *gin.Context) string {
	al := c.GetHeader("Accept-Language")
	if len(al) >= 2 {
		return strings.ToLower(al[:2])
	}
	return localization.DefaultLanguage
}

func (h *Handler) notice(c *gin.Context, titleKey, descKey string, args ...any) Notice {
	l := lang(c)
	return Notice{
		Title:       h.Localizer.GetString(l, titleKey),
		Description: h.Localizer.Format(l, descKey, args...),
	}
}

// classify maps domain errors onto the error kinds the API exposes.
func classify(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, complaint.ErrInvalidSubmission),
		errors.Is(err, complaint.ErrUnknownCategory),
		errors.Is(err, lifecycle.ErrUnknownStatus):
		return apperrors.Validation(err.Error(), err)
	case errors.Is(err, session.ErrInvalidCredentials),
		errors.Is(err, session.ErrNoSession),
		errors.Is(err, session.ErrInvalidToken):
		return apperrors.Unauthorized(err.Error(), err)
	default:
		return apperrors.From(err)
	}
}

// respondError writes err as JSON. A notice is attached when the dashboard
// should show one.
func (h *Handler) respondError(c *gin.Context, err error, n *Notice) {
	appErr := classify(err)
	if appErr.Type == apperrors.ErrorTypeInternal {
		h.log.Error("request failed", "path", c.FullPath(), "error", err)
		appErr = apperrors.Internal("internal server error", err)
	}
	body := gin.H{"error": appErr}
	if n != nil {
		body["notice"] = n
	}
	c.AbortWithStatusJSON(appErr.Code, body)
}
