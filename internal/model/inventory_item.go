package model

// StockStatus is the derived health of an inventory row.
type StockStatus string

const (
	StockOK  StockStatus = "OK"
	StockLow StockStatus = "LOW_STOCK"
)

// InventoryItem is a consumable stock line.
type InventoryItem struct {
	ID        int64  `gorm:"primaryKey"`
	ItemType  string `gorm:"size:100;not null"`
	Quantity  int    `gorm:"not null;check:quantity >= 0"`
	Threshold int    `gorm:"not null;check:threshold >= 0"`
}

// StockStatus is LOW_STOCK when quantity is at or below the threshold. It is never persisted.
func (i InventoryItem) StockStatus() StockStatus {
	if i.Quantity <= i.Threshold {
		return StockLow
	}
	return StockOK
}
