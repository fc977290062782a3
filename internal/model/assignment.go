package model

import "time"

// AssignmentStatus tracks whether an asset is still with the employee.
type AssignmentStatus string

const (
	AssignmentActive   AssignmentStatus = "ACTIVE"
	AssignmentReturned AssignmentStatus = "RETURNED"
)

// Assignment binds an asset to an employee for a period of time.
type Assignment struct {
	ID           int64            `gorm:"primaryKey"`
	AssetID      int64            `gorm:"index;not null"`
	EmployeeID   int64            `gorm:"index;not null"`
	Status       AssignmentStatus `gorm:"size:20;not null"`
	DateAssigned time.Time        `gorm:"not null"`
	DateReturned *time.Time

	// Associations
	Asset    *Asset `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE"`
	Employee *User  `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
}
