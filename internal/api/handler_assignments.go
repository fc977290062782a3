package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/parse"
	"asset-tracking-backend/internal/store"
)

type assignmentRequest struct {
	Asset        optionalID   `json:"asset"`
	Employee     optionalID   `json:"employee"`
	Status       *string      `json:"status" binding:"omitempty,oneof=ACTIVE RETURNED"`
	DateReturned optionalTime `json:"date_returned"`
}

// resolvePK validates a foreign key field and checks the referenced row exists.
// It returns nil with no field error when the field is null and nullable.
func resolvePK(ctx context.Context, fe fieldErrors, field string, o optionalID, nullable bool, exists func(context.Context, int64) error) (*int64, error) {
	if o.isNull() {
		if !nullable {
			fe.add(field, "This field may not be null.")
		}
		return nil, nil
	}
	id, ok, err := parse.LooseID(o.raw)
	if err != nil || !ok {
		fe.add(field, fmt.Sprintf("Incorrect type. Expected pk value, received %s.", string(o.raw)))
		return nil, nil
	}
	if err := exists(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fe.add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}

func (h *Handler) assetExists(ctx context.Context, id int64) error {
	_, err := h.store.GetAsset(ctx, id)
	return err
}

func (h *Handler) userExists(ctx context.Context, id int64) error {
	_, err := h.store.GetUser(ctx, id)
	return err
}

func (h *Handler) applyAssignment(ctx context.Context, req *assignmentRequest, a *model.Assignment, full bool) error {
	fe := fieldErrors{}

	if req.Asset.set {
		id, err := resolvePK(ctx, fe, "asset", req.Asset, false, h.assetExists)
		if err != nil {
			return err
		}
		if id != nil {
			a.AssetID = *id
		}
	} else if full {
		fe.required("asset")
	}
	if req.Employee.set {
		id, err := resolvePK(ctx, fe, "employee", req.Employee, false, h.userExists)
		if err != nil {
			return err
		}
		if id != nil {
			a.EmployeeID = *id
		}
	} else if full {
		fe.required("employee")
	}
	if req.Status != nil {
		a.Status = model.AssignmentStatus(*req.Status)
	}
	if req.DateReturned.set {
		t, ok := req.DateReturned.value()
		if !ok {
			fe.add("date_returned", "Datetime has wrong format.")
		} else {
			a.DateReturned = t
		}
	}

	return fe.err()
}

// ListAssignments handles GET /api/assignments/.
func (h *Handler) ListAssignments(c *gin.Context) {
	assignments, err := h.store.ListAssignments(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		resp = append(resp, newAssignmentResponse(&assignments[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetAssignment handles GET /api/assignments/:id/.
func (h *Handler) GetAssignment(c *gin.Context) {
	id, ok := h.idParam(c, "assignment")
	if !ok {
		return
	}

	a, err := h.store.GetAssignment(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFoundAs(err, "assignment"))
		return
	}
	c.JSON(http.StatusOK, newAssignmentResponse(a))
}

// CreateAssignment handles POST /api/assignments/. The assignment always starts ACTIVE
// and its asset becomes ASSIGNED.
func (h *Handler) CreateAssignment(c *gin.Context) {
	var req assignmentRequest
	if !h.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	a := &model.Assignment{}
	if err := h.applyAssignment(ctx, &req, a, true); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.CreateAssignment(ctx, a, h.now()); err != nil {
		h.fail(c, err)
		return
	}

	created, err := h.store.GetAssignment(ctx, a.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAssignmentResponse(created))
}

// UpdateAssignment handles PUT and PATCH /api/assignments/:id/. Moving to RETURNED
// without a return date stamps it and makes the asset AVAILABLE again.
func (h *Handler) UpdateAssignment(c *gin.Context) {
	id, ok := h.idParam(c, "assignment")
	if !ok {
		return
	}
	var req assignmentRequest
	if !h.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	a, err := h.store.GetAssignment(ctx, id)
	if err != nil {
		h.fail(c, notFoundAs(err, "assignment"))
		return
	}
	if err := h.applyAssignment(ctx, &req, a, isFullUpdate(c)); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.UpdateAssignment(ctx, a, h.now()); err != nil {
		h.fail(c, err)
		return
	}

	updated, err := h.store.GetAssignment(ctx, a.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssignmentResponse(updated))
}

// DeleteAssignment handles DELETE /api/assignments/:id/.
func (h *Handler) DeleteAssignment(c *gin.Context) {
	id, ok := h.idParam(c, "assignment")
	if !ok {
		return
	}
	if err := h.store.DeleteAssignment(c.Request.Context(), id); err != nil {
		h.fail(c, notFoundAs(err, "assignment"))
		return
	}
	c.Status(http.StatusNoContent)
}
