package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"asset-tracking-backend/internal/apperr"
	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/mw"
	"asset-tracking-backend/internal/parse"
	"asset-tracking-backend/internal/store"
)

// EmployeeDashboard handles GET /api/employee/dashboard/.
func (h *Handler) EmployeeDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	caller := mw.Caller(c)

	assignments, err := h.store.ListAssignmentsForEmployee(ctx, caller.ID, model.AssignmentActive)
	if err != nil {
		h.fail(c, err)
		return
	}
	active, err := h.store.CountTicketsReportedBy(ctx, caller.ID, model.TicketOpen, model.TicketInProgress)
	if err != nil {
		h.fail(c, err)
		return
	}
	resolved, err := h.store.CountTicketsReportedBy(ctx, caller.ID, model.TicketClosed)
	if err != nil {
		h.fail(c, err)
		return
	}

	type assignedAsset struct {
		AssetName  string    `json:"asset_name"`
		AssignedAt time.Time `json:"assigned_at"`
	}
	assigned := make([]assignedAsset, 0, len(assignments))
	for _, a := range assignments {
		if a.Asset == nil {
			continue
		}
		assigned = append(assigned, assignedAsset{AssetName: a.Asset.Name, AssignedAt: a.DateAssigned})
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": gin.H{
			"my_assets":        len(assignments),
			"active_tickets":   active,
			"resolved_tickets": resolved,
		},
		"assigned_assets": assigned,
	})
}

// EmployeeAssets handles GET /api/employee/assets/.
func (h *Handler) EmployeeAssets(c *gin.Context) {
	assignments, err := h.store.ListAssignmentsForEmployee(c.Request.Context(), mw.Caller(c).ID, model.AssignmentActive)
	if err != nil {
		h.fail(c, err)
		return
	}

	type employeeAsset struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	resp := make([]employeeAsset, 0, len(assignments))
	for _, a := range assignments {
		if a.Asset == nil {
			continue
		}
		resp = append(resp, employeeAsset{ID: a.Asset.ID, Name: a.Asset.Name})
	}
	c.JSON(http.StatusOK, resp)
}

// EmployeeAssignments handles GET /api/employee/assignments/ across all statuses.
func (h *Handler) EmployeeAssignments(c *gin.Context) {
	assignments, err := h.store.ListAssignmentsForEmployee(c.Request.Context(), mw.Caller(c).ID, "")
	if err != nil {
		h.fail(c, err)
		return
	}

	type employeeAssignment struct {
		ID           int64                  `json:"id"`
		Asset        string                 `json:"asset"`
		Status       model.AssignmentStatus `json:"status"`
		AssignedDate time.Time              `json:"assigned_date"`
	}
	resp := make([]employeeAssignment, 0, len(assignments))
	for _, a := range assignments {
		if a.Asset == nil {
			continue
		}
		resp = append(resp, employeeAssignment{
			ID:           a.ID,
			Asset:        a.Asset.Name,
			Status:       a.Status,
			AssignedDate: a.DateAssigned,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// EmployeeTickets handles GET /api/employee/tickets/.
func (h *Handler) EmployeeTickets(c *gin.Context) {
	tickets, err := h.store.ListTicketsReportedBy(c.Request.Context(), mw.Caller(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	type employeeTicket struct {
		ID         int64              `json:"id"`
		Asset      string             `json:"asset"`
		Issue      string             `json:"issue"`
		Status     model.TicketStatus `json:"status"`
		Technician string             `json:"technician"`
		OpenedOn   time.Time          `json:"opened_on"`
		AssignedOn *time.Time         `json:"assigned_on"`
		ResolvedOn *time.Time         `json:"resolved_on"`
	}
	resp := make([]employeeTicket, 0, len(tickets))
	for _, t := range tickets {
		row := employeeTicket{
			ID:         t.ID,
			Asset:      "N/A",
			Issue:      t.Issue,
			Status:     t.Status,
			Technician: "Not assigned",
			OpenedOn:   t.OpenedOn,
			AssignedOn: t.AssignedOn,
			ResolvedOn: t.ResolvedOn,
		}
		if t.Asset != nil {
			row.Asset = t.Asset.Name
		}
		if t.Technician != nil {
			row.Technician = t.Technician.Username
		}
		resp = append(resp, row)
	}
	c.JSON(http.StatusOK, resp)
}

type reportIssueRequest struct {
	Asset json.RawMessage `json:"asset"`
	Issue any             `json:"issue"`
}

// ReportIssue handles POST /api/tickets/report/. The ticket starts OPEN, reported by the caller.
func (h *Handler) ReportIssue(c *gin.Context) {
	missing := apperr.Validation("Asset and issue are required")

	var req reportIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, missing)
		return
	}
	assetID, present, err := parse.LooseID(req.Asset)
	issue, isString := req.Issue.(string)
	if err != nil || !present || !isString || issue == "" {
		h.fail(c, missing)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.store.GetAsset(ctx, assetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.fail(c, apperr.FieldErrors(map[string][]string{"asset": {"Asset does not exist."}}))
			return
		}
		h.fail(c, err)
		return
	}

	caller := mw.Caller(c)
	ticket := &model.RepairTicket{
		AssetID:      assetID,
		ReportedByID: &caller.ID,
		Issue:        issue,
		Status:       model.TicketOpen,
		OpenedOn:     h.now(),
	}
	if err := h.store.CreateTicket(ctx, ticket); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Issue reported successfully"})
}
