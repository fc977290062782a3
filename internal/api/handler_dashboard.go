package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DashboardStats handles GET /api/dashboard/.
func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.store.DashboardStats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_assets":    stats.TotalAssets,
		"total_inventory": stats.TotalInventory,
		"assigned_assets": stats.AssignedAssets,
		"low_stock":       stats.LowStock,
		"open_tickets":    stats.OpenTickets,
		"tickets_status":  stats.TicketsStatus,
		"assets_status":   stats.AssetsStatus,
	})
}

// RecentActivity handles GET /api/recent-activity/ with the five newest tickets.
func (h *Handler) RecentActivity(c *gin.Context) {
	tickets, err := h.store.RecentTickets(c.Request.Context(), 5)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]ActivityResponse, 0, len(tickets))
	for _, t := range tickets {
		assetName := ""
		if t.Asset != nil {
			assetName = t.Asset.Name
		}
		resp = append(resp, ActivityResponse{
			Message: fmt.Sprintf("Ticket for %s marked %s", assetName, t.Status),
			Time:    t.OpenedOn,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// Health handles GET /healthz.
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
