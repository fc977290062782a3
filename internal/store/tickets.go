package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asset-tracking-backend/internal/model"
)

func (s *gormStore) ListTickets(ctx context.Context) ([]model.RepairTicket, error) {
	var tickets []model.RepairTicket
	err := s.db.WithContext(ctx).
		Preload("Asset").
		Order("opened_on DESC, id DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *gormStore) ListTicketsReportedBy(ctx context.Context, userID int64) ([]model.RepairTicket, error) {
	var tickets []model.RepairTicket
	err := s.db.WithContext(ctx).
		Preload("Asset").
		Preload("Technician").
		Where("reported_by_id = ?", userID).
		Order("id").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// CountTicketsReportedBy counts the user's reported tickets, restricted to statuses when given.
func (s *gormStore) CountTicketsReportedBy(ctx context.Context, userID int64, statuses ...model.TicketStatus) (int64, error) {
	q := s.db.WithContext(ctx).Model(&model.RepairTicket{}).Where("reported_by_id = ?", userID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var n int64
	err := q.Count(&n).Error
	return n, err
}

// ListTicketsForTechnician returns tickets assigned to the technician, newest first.
func (s *gormStore) ListTicketsForTechnician(ctx context.Context, technicianID int64) ([]model.RepairTicket, error) {
	var tickets []model.RepairTicket
	err := s.db.WithContext(ctx).
		Preload("Asset").
		Where("technician_id = ?", technicianID).
		Order("opened_on DESC, id DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (s *gormStore) GetTicket(ctx context.Context, id int64) (*model.RepairTicket, error) {
	var t model.RepairTicket
	if err := s.db.WithContext(ctx).Preload("Asset").First(&t, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// GetTechnicianTicket finds a ticket only if it is assigned to the technician.
func (s *gormStore) GetTechnicianTicket(ctx context.Context, id, technicianID int64) (*model.RepairTicket, error) {
	var t model.RepairTicket
	err := s.db.WithContext(ctx).
		Preload("Asset").
		Where("id = ? AND technician_id = ?", id, technicianID).
		First(&t).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *gormStore) CreateTicket(ctx context.Context, t *model.RepairTicket) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(t).Error
}

func (s *gormStore) SaveTicket(ctx context.Context, t *model.RepairTicket) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}

func (s *gormStore) DeleteTicket(ctx context.Context, id int64) error {
	return deleteByID(s.db.WithContext(ctx), &model.RepairTicket{}, id)
}

// UpdateTicketStatus applies status to t and appends an activity line for actorID.
// The ticket update and the log entry commit together.
func (s *gormStore) UpdateTicketStatus(ctx context.Context, t *model.RepairTicket, status model.TicketStatus, actorID int64, now time.Time) (*model.ActivityLog, error) {
	t.ApplyStatus(status, now)

	assetName := ""
	if t.Asset != nil {
		assetName = t.Asset.Name
	}
	entry := &model.ActivityLog{
		UserID:    actorID,
		Message:   fmt.Sprintf("Ticket for %s marked %s", assetName, status),
		CreatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.RepairTicket{}).Where("id = ?", t.ID).Updates(map[string]any{
			"status":      t.Status,
			"assigned_on": t.AssignedOn,
			"resolved_on": t.ResolvedOn,
		})
		if res.Error != nil {
			return fmt.Errorf("update ticket %d: %w", t.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Omit(clause.Associations).Create(entry).Error; err != nil {
			return fmt.Errorf("write activity log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
