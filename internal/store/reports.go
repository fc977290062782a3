package store

import (
	"context"

	"asset-tracking-backend/internal/model"
)

// DashboardStats aggregates the admin overview. Counts are taken fresh on every call.
func (s *gormStore) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	db := s.db.WithContext(ctx)
	stats := &DashboardStats{
		TicketsStatus: map[model.TicketStatus]int64{
			model.TicketOpen:       0,
			model.TicketInProgress: 0,
			model.TicketClosed:     0,
		},
		AssetsStatus: map[model.AssetStatus]int64{
			model.AssetAvailable:   0,
			model.AssetAssigned:    0,
			model.AssetUnderRepair: 0,
		},
	}

	if err := db.Model(&model.Asset{}).Count(&stats.TotalAssets).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.InventoryItem{}).Count(&stats.TotalInventory).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Assignment{}).Where("date_returned IS NULL").Count(&stats.AssignedAssets).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.InventoryItem{}).Where("quantity <= threshold").Count(&stats.LowStock).Error; err != nil {
		return nil, err
	}

	var ticketRows []statusCount
	err := db.Model(&model.RepairTicket{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&ticketRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range ticketRows {
		status := model.TicketStatus(row.Status)
		if status != model.TicketClosed {
			stats.OpenTickets += row.Total
		}
		if _, known := stats.TicketsStatus[status]; known {
			stats.TicketsStatus[status] = row.Total
		}
	}

	var assetRows []statusCount
	err = db.Model(&model.Asset{}).
		Select("status, count(*) as total").
		Group("status").
		Scan(&assetRows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range assetRows {
		status := model.AssetStatus(row.Status)
		if _, known := stats.AssetsStatus[status]; known {
			stats.AssetsStatus[status] = row.Total
		}
	}

	return stats, nil
}

// RecentTickets returns the most recently created tickets.
func (s *gormStore) RecentTickets(ctx context.Context, limit int) ([]model.RepairTicket, error) {
	var tickets []model.RepairTicket
	err := s.db.WithContext(ctx).
		Preload("Asset").
		Order("id DESC").
		Limit(limit).
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// RecentActivity returns the user's newest activity lines.
func (s *gormStore) RecentActivity(ctx context.Context, userID int64, limit int) ([]model.ActivityLog, error) {
	var logs []model.ActivityLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
