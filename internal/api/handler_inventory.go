package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"asset-tracking-backend/internal/model"
)

type inventoryRequest struct {
	ItemType  *string `json:"item_type" binding:"omitempty,min=1,max=100"`
	Quantity  *int    `json:"quantity" binding:"omitempty,min=0"`
	Threshold *int    `json:"threshold" binding:"omitempty,min=0"`
}

func (r *inventoryRequest) apply(item *model.InventoryItem, full bool) error {
	fe := fieldErrors{}
	if r.ItemType != nil {
		item.ItemType = *r.ItemType
	} else if full {
		fe.required("item_type")
	}
	if r.Quantity != nil {
		item.Quantity = *r.Quantity
	} else if full {
		fe.required("quantity")
	}
	if r.Threshold != nil {
		item.Threshold = *r.Threshold
	} else if full {
		fe.required("threshold")
	}
	return fe.err()
}

// ListInventory handles GET /api/inventory/.
func (h *Handler) ListInventory(c *gin.Context) {
	items, err := h.store.ListInventory(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]InventoryResponse, 0, len(items))
	for i := range items {
		resp = append(resp, newInventoryResponse(&items[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetInventoryItem handles GET /api/inventory/:id/.
func (h *Handler) GetInventoryItem(c *gin.Context) {
	id, ok := h.idParam(c, "inventory item")
	if !ok {
		return
	}

	item, err := h.store.GetInventoryItem(c.Request.Context(), id)
	if err != nil {
		h.fail(c, notFoundAs(err, "inventory item"))
		return
	}
	c.JSON(http.StatusOK, newInventoryResponse(item))
}

// CreateInventoryItem handles POST /api/inventory/. A client-supplied status is ignored.
func (h *Handler) CreateInventoryItem(c *gin.Context) {
	var req inventoryRequest
	if !h.bind(c, &req) {
		return
	}

	item := &model.InventoryItem{}
	if err := req.apply(item, true); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.CreateInventoryItem(c.Request.Context(), item); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, newInventoryResponse(item))
}

// UpdateInventoryItem handles PUT and PATCH /api/inventory/:id/.
func (h *Handler) UpdateInventoryItem(c *gin.Context) {
	id, ok := h.idParam(c, "inventory item")
	if !ok {
		return
	}
	var req inventoryRequest
	if !h.bind(c, &req) {
		return
	}

	ctx := c.Request.Context()
	item, err := h.store.GetInventoryItem(ctx, id)
	if err != nil {
		h.fail(c, notFoundAs(err, "inventory item"))
		return
	}
	if err := req.apply(item, isFullUpdate(c)); err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.SaveInventoryItem(ctx, item); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newInventoryResponse(item))
}

// DeleteInventoryItem handles DELETE /api/inventory/:id/.
func (h *Handler) DeleteInventoryItem(c *gin.Context) {
	id, ok := h.idParam(c, "inventory item")
	if !ok {
		return
	}
	if err := h.store.DeleteInventoryItem(c.Request.Context(), id); err != nil {
		h.fail(c, notFoundAs(err, "inventory item"))
		return
	}
	c.Status(http.StatusNoContent)
}
