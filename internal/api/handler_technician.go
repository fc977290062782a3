package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"asset-tracking-backend/internal/apperr"
	"asset-tracking-backend/internal/metrics"
	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/mw"
)

// TechnicianDashboard handles GET /api/technician/dashboard/.
func (h *Handler) TechnicianDashboard(c *gin.Context) {
	tickets, err := h.store.ListTicketsForTechnician(c.Request.Context(), mw.Caller(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	type technicianTicket struct {
		ID       int64              `json:"id"`
		Asset    string             `json:"asset"`
		Issue    string             `json:"issue"`
		Status   model.TicketStatus `json:"status"`
		OpenedOn time.Time          `json:"opened_on"`
	}

	now := h.now()
	counts := map[model.TicketStatus]int{}
	list := make([]technicianTicket, 0, len(tickets))
	activity := make([]ActivityResponse, 0, len(tickets))
	for _, t := range tickets {
		counts[t.Status]++

		assetName := ""
		if t.Asset != nil {
			assetName = t.Asset.Name
		}
		list = append(list, technicianTicket{
			ID:       t.ID,
			Asset:    assetName,
			Issue:    t.Issue,
			Status:   t.Status,
			OpenedOn: t.OpenedOn,
		})
		activity = append(activity, ActivityResponse{
			Message: fmt.Sprintf("%s – %s", assetName, t.Status),
			Time:    humanize.RelTime(t.OpenedOn, now, "ago", "from now"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"open":        counts[model.TicketOpen],
			"in_progress": counts[model.TicketInProgress],
			"closed":      counts[model.TicketClosed],
		},
		"tickets":  list,
		"activity": activity,
	})
}

type ticketStatusRequest struct {
	Status any `json:"status"`
}

// UpdateTicketStatus handles PATCH /api/technician/tickets/:id/status/.
// Only the technician the ticket is assigned to can see or change it.
func (h *Handler) UpdateTicketStatus(c *gin.Context) {
	id, ok := h.idParam(c, "ticket")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	caller := mw.Caller(c)
	ticket, err := h.store.GetTechnicianTicket(ctx, id, caller.ID)
	if err != nil {
		h.fail(c, notFoundAs(err, "ticket"))
		return
	}

	invalid := apperr.Validation("Invalid status")
	var req ticketStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, invalid)
		return
	}
	raw, _ := req.Status.(string)
	status := model.TicketStatus(raw)
	if !status.Valid() {
		h.fail(c, invalid)
		return
	}

	if _, err := h.store.UpdateTicketStatus(ctx, ticket, status, caller.ID, h.now()); err != nil {
		h.fail(c, notFoundAs(err, "ticket"))
		return
	}
	metrics.TicketTransitions.WithLabelValues(string(status)).Inc()
	c.JSON(http.StatusOK, gin.H{"message": "Status updated successfully"})
}

// TechnicianRecentActivity handles GET /api/technician/recent-activity/.
func (h *Handler) TechnicianRecentActivity(c *gin.Context) {
	logs, err := h.store.RecentActivity(c.Request.Context(), mw.Caller(c).ID, 10)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ActivityResponse, 0, len(logs))
	for _, l := range logs {
		resp = append(resp, ActivityResponse{Message: l.Message, Time: l.CreatedAt})
	}
	c.JSON(http.StatusOK, resp)
}
