package store

import "asset-tracking-backend/internal/model"

// DashboardStats is the admin overview computed fresh on every call.
type DashboardStats struct {
	TotalAssets    int64
	TotalInventory int64
	AssignedAssets int64 // assignments without a return date
	LowStock       int64
	OpenTickets    int64 // tickets that are not CLOSED
	TicketsStatus  map[model.TicketStatus]int64
	AssetsStatus   map[model.AssetStatus]int64
}

// statusCount is a row of a GROUP BY status aggregation.
type statusCount struct {
	Status string
	Total  int64
}
