package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"asset-tracking-backend/internal/model"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for all database operations.
type Store interface {
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, id int64) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, u *model.User) error
	SaveUser(ctx context.Context, u *model.User) error
	SetPassword(ctx context.Context, userID int64, hash string) error
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error

	ListAssets(ctx context.Context) ([]model.Asset, error)
	GetAsset(ctx context.Context, id int64) (*model.Asset, error)
	CreateAsset(ctx context.Context, a *model.Asset) error
	SaveAsset(ctx context.Context, a *model.Asset) error
	DeleteAsset(ctx context.Context, id int64) error
	SerialNumberTaken(ctx context.Context, serial string, excludeID int64) (bool, error)

	ListInventory(ctx context.Context) ([]model.InventoryItem, error)
	GetInventoryItem(ctx context.Context, id int64) (*model.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item *model.InventoryItem) error
	SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error
	DeleteInventoryItem(ctx context.Context, id int64) error

	ListAssignments(ctx context.Context) ([]model.Assignment, error)
	ListAssignmentsForEmployee(ctx context.Context, employeeID int64, status model.AssignmentStatus) ([]model.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (*model.Assignment, error)
	CreateAssignment(ctx context.Context, a *model.Assignment, now time.Time) error
	UpdateAssignment(ctx context.Context, a *model.Assignment, now time.Time) error
	DeleteAssignment(ctx context.Context, id int64) error

	ListTickets(ctx context.Context) ([]model.RepairTicket, error)
	ListTicketsReportedBy(ctx context.Context, userID int64) ([]model.RepairTicket, error)
	CountTicketsReportedBy(ctx context.Context, userID int64, statuses ...model.TicketStatus) (int64, error)
	ListTicketsForTechnician(ctx context.Context, technicianID int64) ([]model.RepairTicket, error)
	GetTicket(ctx context.Context, id int64) (*model.RepairTicket, error)
	GetTechnicianTicket(ctx context.Context, id, technicianID int64) (*model.RepairTicket, error)
	CreateTicket(ctx context.Context, t *model.RepairTicket) error
	SaveTicket(ctx context.Context, t *model.RepairTicket) error
	DeleteTicket(ctx context.Context, id int64) error
	UpdateTicketStatus(ctx context.Context, t *model.RepairTicket, status model.TicketStatus, actorID int64, now time.Time) (*model.ActivityLog, error)

	DashboardStats(ctx context.Context) (*DashboardStats, error)
	RecentTickets(ctx context.Context, limit int) ([]model.RepairTicket, error)
	RecentActivity(ctx context.Context, userID int64, limit int) ([]model.ActivityLog, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// notFound converts gorm's sentinel into ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// deleteByID removes one row of the given model, reporting ErrNotFound when nothing matched.
func deleteByID(tx *gorm.DB, value any, id int64) error {
	res := tx.Delete(value, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
