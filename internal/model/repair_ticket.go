package model

import "time"

// TicketStatus is the progress of a repair ticket.
type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketClosed     TicketStatus = "CLOSED"
)

// Valid reports whether s is one of the known ticket statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketClosed:
		return true
	}
	return false
}

// RepairTicket is a reported issue against an asset.
type RepairTicket struct {
	ID           int64        `gorm:"primaryKey"`
	AssetID      int64        `gorm:"index;not null"`
	ReportedByID *int64       `gorm:"index"`
	TechnicianID *int64       `gorm:"index"`
	Issue        string       `gorm:"type:text;not null"`
	Status       TicketStatus `gorm:"size:20;not null;index"`
	OpenedOn     time.Time    `gorm:"not null"`
	AssignedOn   *time.Time
	ResolvedOn   *time.Time

	// Associations
	Asset      *Asset `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
	ReportedBy *User  `gorm:"foreignKey:ReportedByID;constraint:OnDelete:SET NULL"`
	Technician *User  `gorm:"foreignKey:TechnicianID;constraint:OnDelete:SET NULL"`
}

// ApplyStatus moves the ticket to status and stamps the matching timestamp.
// Re-entering the same status stamps again.
func (t *RepairTicket) ApplyStatus(status TicketStatus, now time.Time) {
	t.Status = status
	switch status {
	case TicketInProgress:
		t.AssignedOn = &now
	case TicketClosed:
		t.ResolvedOn = &now
	}
}
