package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/parse"
)

type assetRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=100"`
	Type         *string `json:"type" binding:"omitempty,oneof=LAPTOP KEYBOARD MOUSE MONITOR"`
	SerialNumber *string `json:"serial_number" binding:"omitempty,min=1,max=100"`
	Status       *string `json:"status" binding:"omitempty,oneof=AVAILABLE UNDER_REPAIR ASSIGNED"`
	PurchaseDate *string `json:"purchase_date"`
}

// applyAsset copies the provided fields onto a. With full set every field is required.
func (h *Handler) applyAsset(ctx context.Context, req *assetRequest, a *model.Asset, full bool) error {
	fe := fieldErrors{}

	if req.Name != nil {
		a.Name = *req.Name
	} else if full {
		fe.required("name")
	}
	if req.Type != nil {
		a.Type = model.AssetType(*req.Type)
	} else if full {
		fe.required("type")
	}
	if req.Status != nil {
		a.Status = model.AssetStatus(*req.Status)
	} else if full {
		fe.required("status")
	}
	if req.PurchaseDate != nil {
		d, err := parse.Date(*req.PurchaseDate)
		if err != nil {
			fe.add("purchase_date", "Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")
		} else {
			a.PurchaseDate = d
		}
	} else if full {
		fe.required("purchase_date")
	}
	if req.SerialNumber != nil {
		taken, err := h.store.SerialNumberTaken(ctx, *req.SerialNumber, a.ID)
		if err != nil {
			return err
		}
		if taken {
			fe.add("serial_number", "asset with this serial number already exists.")
		} else {
			a.SerialNumber = *req.SerialNumber
		}
	} else if full {
		fe.required("serial_number")
	}

	return fe.err()
}

// ListAssets handles GET /api/assets/.
func (h *Handler) ListAssets(c *gin.Context) {
	assets, err := h.store.ListAssets(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]AssetResponse, 0, len(assets))
	for i := range assets {
		resp = append(resp, newAssetResponse(&assets[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetAsset handles GET /api/assets/:id/.
func (h *Handler) GetAsset(c *gin.Context) {
	id, ok := h.idParam(c, "asset")
	if !ok {
		return
	}

	a, err := h.store.GetAsset(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFoundAs(err, "asset"))
		return
	}
	c.JSON(http.StatusOK, newAssetResponse(a))
}

// CreateAsset handles POST /api/assets/.
func (h *Handler) CreateAsset(c *gin.Context) {
	var req assetRequest
	if !h.bind(c, &req) {
		return
	}

	a := &model.Asset{}
	if err := h.applyAsset(c.Request.Context(), &req, a, true); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.CreateAsset(c.Request.Context(), a); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newAssetResponse(a))
}

// UpdateAsset handles PUT and PATCH /api/assets/:id/.
func (h *Handler) UpdateAsset(c *gin.Context) {
	id, ok := h.idParam(c, "asset")
	if !ok {
		return
	}
	var req assetRequest
	if !h.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	a, err := h.store.GetAsset(ctx, id)
	if err != nil {
		h.fail(c, notFoundAs(err, "asset"))
		return
	}
	if err := h.applyAsset(ctx, &req, a, isFullUpdate(c)); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.SaveAsset(ctx, a); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newAssetResponse(a))
}

// DeleteAsset handles DELETE /api/assets/:id/. Assignments and tickets go with it.
func (h *Handler) DeleteAsset(c *gin.Context) {
	id, ok := h.idParam(c, "asset")
	if !ok {
		return
	}
	if err := h.store.DeleteAsset(c.Request.Context(), id); err != nil {
		h.fail(c, notFoundAs(err, "asset"))
		return
	}
	c.Status(http.StatusNoContent)
}
