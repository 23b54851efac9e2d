package handler

import (
	"civicconnect/backend/internal/complaint"
	"civicconnect/backend/internal/lifecycle"
	"civicconnect/backend/internal/models"
	"net/http"

	"github.com/gin-gonic/gin"
)

// complaintView is a stored complaint plus what a dashboard needs to render it.
type complaintView struct {
	models.Complaint
	CategoryLabel string          `json:"category_label"`
	Badge         lifecycle.Badge `json:"badge"`
}

func views(records []models.Complaint) []complaintView {
	out := make([]complaintView, 0, len(records))
	for _, c := range records {
		out = append(out, complaintView{
			Complaint:     c,
			CategoryLabel: complaint.CategoryLabel(c.Category),
			Badge:         lifecycle.Display(c.Status),
		})
	}
	return out
}

func (h *Handler) CitizenComplaints(c *gin.Context) {
	d, err := h.Complaints.CitizenDashboard(c.Request.Context())
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	body := gin.H{"complaints": views(d.Complaints), "stats": d.Stats}
	if len(d.Complaints) == 0 {
		body["empty_message"] = h.Localizer.GetString(lang(c), "dashboard.empty.citizen")
	}
	c.JSON(http.StatusOK, body)
}

func (h *Handler) SubmitComplaint(c *gin.Context) {
	var sub complaint.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		n := h.notice(c, "notice.invalid_submission.title", "notice.invalid_submission.description")
		h.respondError(c, complaint.ErrInvalidSubmission, &n)
		return
	}

	created, err := h.Complaints.Submit(c.Request.Context(), sub)
	if err != nil {
		n := h.notice(c, "notice.invalid_submission.title", "notice.invalid_submission.description")
		h.respondError(c, err, &n)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"complaint": views([]models.Complaint{created})[0],
		"notice":    h.notice(c, "notice.complaint_submitted.title", "notice.complaint_submitted.description"),
	})
}

func (h *Handler) AdminComplaints(c *gin.Context) {
	filter := c.DefaultQuery("status", lifecycle.FilterAll)
	d, err := h.Complaints.AdminDashboard(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}
	body := gin.H{"complaints": views(d.Complaints), "stats": d.Stats, "filter": filter}
	if len(d.Complaints) == 0 {
		l := lang(c)
		if filter == lifecycle.FilterAll {
			body["empty_message"] = h.Localizer.GetString(l, "dashboard.empty.admin.all")
		} else {
			body["empty_message"] = h.Localizer.Format(l, "dashboard.empty.admin.filtered", filter)
		}
	}
	c.JSON(http.StatusOK, body)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus sets a complaint's status in every ledger. An id no ledger holds
// is answered like any other update, with ledgers_written 0.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, lifecycle.ErrUnknownStatus, nil)
		return
	}

	id := c.Param("id")
	written, err := h.Complaints.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.respondError(c, err, nil)
		return
	}

	status, _ := lifecycle.Parse(req.Status)
	c.JSON(http.StatusOK, gin.H{
		"id":              id,
		"status":          status,
		"ledgers_written": written,
		"notice":          h.notice(c, "notice.status_updated.title", "notice.status_updated.description", status),
	})
}

type statusInfo struct {
	Status models.Status `json:"status"`
	lifecycle.Badge
}

func (h *Handler) Statuses(c *gin.Context) {
	out := make([]statusInfo, 0, 3)
	for _, s := range lifecycle.Statuses() {
		out = append(out, statusInfo{Status: s, Badge: lifecycle.Display(s)})
	}
	c.JSON(http.StatusOK, gin.H{"statuses": out, "filters": append([]string{lifecycle.FilterAll}, statusNames()...)})
}

func statusNames() []string {
	var names []string
	for _, s := range lifecycle.Statuses() {
		names = append(names, string(s))
	}
	return names
}

type categoryInfo struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

func (h *Handler) Categories(c *gin.Context) {
	tokens := complaint.CategoryTokens()
	out := make([]categoryInfo, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, categoryInfo{Token: t, Label: complaint.CategoryLabel(t)})
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}
