package model

import "time"

// AssetType is the kind of hardware an asset is.
type AssetType string

const (
	AssetTypeLaptop   AssetType = "LAPTOP"
	AssetTypeKeyboard AssetType = "KEYBOARD"
	AssetTypeMouse    AssetType = "MOUSE"
	AssetTypeMonitor  AssetType = "MONITOR"
)

// AssetStatus is where an asset currently is in its lifecycle.
type AssetStatus string

const (
	AssetAvailable   AssetStatus = "AVAILABLE"
	AssetUnderRepair AssetStatus = "UNDER_REPAIR"
	AssetAssigned    AssetStatus = "ASSIGNED"
)

// Asset is a tracked physical item.
type Asset struct {
	ID           int64       `gorm:"primaryKey"`
	Name         string      `gorm:"size:100;not null"`
	Type         AssetType   `gorm:"size:50;not null"`
	SerialNumber string      `gorm:"uniqueIndex;size:100;not null"`
	Status       AssetStatus `gorm:"size:20;not null;index"`
	PurchaseDate time.Time   `gorm:"type:date;not null"`

	// Associations
	Assignments []Assignment   `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
	Tickets     []RepairTicket `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
}
