package model

import (
	"strings"
	"time"
)

// Role is the coarse job function of a user.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleEmployee   Role = "EMPLOYEE"
	RoleTechnician Role = "TECHNICIAN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleTechnician:
		return true
	}
	return false
}

// Capitalized renders the role as "Admin", "Employee" or "Technician".
func (r Role) Capitalized() string {
	if r == "" {
		return ""
	}
	s := string(r)
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// User is an account that can authenticate against the API.
type User struct {
	ID          int64     `gorm:"primaryKey"`
	Username    string    `gorm:"uniqueIndex;size:150;not null"`
	Email       string    `gorm:"size:254;not null;default:''"`
	Password    string    `gorm:"size:128;not null"` // bcrypt hash
	Role        Role      `gorm:"size:20;not null"`
	IsStaff     bool      `gorm:"not null"`
	IsSuperuser bool      `gorm:"not null"`
	IsActive    bool      `gorm:"not null"`
	DateJoined  time.Time `gorm:"not null"`
	LastLogin   *time.Time
}
