package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracking-backend/internal/model"
)

type ticketRequest struct {
	Asset      optionalID   `json:"asset"`
	ReportedBy optionalID   `json:"reported_by"`
	Technician optionalID   `json:"technician"`
	Issue      *string      `json:"issue" binding:"omitempty,min=1"`
	Status     *string      `json:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS CLOSED"`
	AssignedOn optionalTime `json:"assigned_on"`
	ResolvedOn optionalTime `json:"resolved_on"`
}

func (h *Handler) applyTicket(ctx context.Context, req *ticketRequest, t *model.RepairTicket, full bool) error {
	fe := fieldErrors{}

	if req.Asset.set {
		id, err := resolvePK(ctx, fe, "asset", req.Asset, false, h.assetExists)
		if err != nil {
			return err
		}
		if id != nil {
			t.AssetID = *id
		}
	} else if full {
		fe.required("asset")
	}
	if req.ReportedBy.set {
		id, err := resolvePK(ctx, fe, "reported_by", req.ReportedBy, true, h.userExists)
		if err != nil {
			return err
		}
		t.ReportedByID = id
	}
	if req.Technician.set {
		id, err := resolvePK(ctx, fe, "technician", req.Technician, true, h.userExists)
		if err != nil {
			return err
		}
		t.TechnicianID = id
	}
	if req.Issue != nil {
		t.Issue = *req.Issue
	} else if full {
		fe.required("issue")
	}
	if req.Status != nil {
		t.Status = model.TicketStatus(*req.Status)
	}
	if req.AssignedOn.set {
		v, ok := req.AssignedOn.value()
		if !ok {
			fe.add("assigned_on", "Datetime has wrong format.")
		} else {
			t.AssignedOn = v
		}
	}
	if req.ResolvedOn.set {
		v, ok := req.ResolvedOn.value()
		if !ok {
			fe.add("resolved_on", "Datetime has wrong format.")
		} else {
			t.ResolvedOn = v
		}
	}

	return fe.err()
}

// ListTickets handles GET /api/tickets/, newest opened first.
func (h *Handler) ListTickets(c *gin.Context) {
	tickets, err := h.store.ListTickets(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, newTicketResponse(&tickets[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetTicket handles GET /api/tickets/:id/.
func (h *Handler) GetTicket(c *gin.Context) {
	id, ok := h.idParam(c, "ticket")
	if !ok {
		return
	}

	t, err := h.store.GetTicket(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFoundAs(err, "ticket"))
		return
	}
	c.JSON(http.StatusOK, newTicketResponse(t))
}

// CreateTicket handles POST /api/tickets/.
func (h *Handler) CreateTicket(c *gin.Context) {
	var req ticketRequest
	if !h.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	t := &model.RepairTicket{Status: model.TicketOpen, OpenedOn: h.now()}
	if err := h.applyTicket(ctx, &req, t, true); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.CreateTicket(ctx, t); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.store.GetTicket(ctx, t.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newTicketResponse(created))
}

// UpdateTicket handles PUT and PATCH /api/tickets/:id/. It is a plain field update;
// only the technician status endpoint stamps timestamps and logs activity.
func (h *Handler) UpdateTicket(c *gin.Context) {
	id, ok := h.idParam(c, "ticket")
	if !ok {
		return
	}
	var req ticketRequest
	if !h.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	t, err := h.store.GetTicket(ctx, id)
	if err != nil {
		h.fail(c, notFoundAs(err, "ticket"))
		return
	}
	if err := h.applyTicket(ctx, &req, t, isFullUpdate(c)); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.SaveTicket(ctx, t); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.store.GetTicket(ctx, t.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newTicketResponse(updated))
}

// DeleteTicket handles DELETE /api/tickets/:id/.
func (h *Handler) DeleteTicket(c *gin.Context) {
	id, ok := h.idParam(c, "ticket")
	if !ok {
		return
	}
	if err := h.store.DeleteTicket(c.Request.Context(), id); err != nil {
		h.fail(c, notFoundAs(err, "ticket"))
		return
	}
	c.Status(http.StatusNoContent)
}
