package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asset-tracking-backend/internal/model"
)

func (s *gormStore) ListAssignments(ctx context.Context) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := s.db.WithContext(ctx).
		Preload("Asset").
		Preload("Employee").
		Order("id").
		Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

// ListAssignmentsForEmployee returns the employee's assignments, optionally filtered by status.
func (s *gormStore) ListAssignmentsForEmployee(ctx context.Context, employeeID int64, status model.AssignmentStatus) ([]model.Assignment, error) {
	q := s.db.WithContext(ctx).Preload("Asset").Where("employee_id = ?", employeeID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var assignments []model.Assignment
	if err := q.Order("id").Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}

func (s *gormStore) GetAssignment(ctx context.Context, id int64) (*model.Assignment, error) {
	var a model.Assignment
	err := s.db.WithContext(ctx).
		Preload("Asset").
		Preload("Employee").
		First(&a, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// CreateAssignment records a new ACTIVE assignment and marks the asset ASSIGNED in one transaction.
func (s *gormStore) CreateAssignment(ctx context.Context, a *model.Assignment, now time.Time) error {
	a.Status = model.AssignmentActive
	a.DateAssigned = now
	a.DateReturned = nil

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
			return fmt.Errorf("create assignment: %w", err)
		}
		if err := setAssetStatus(tx, a.AssetID, model.AssetAssigned); err != nil {
			return err
		}
		return nil
	})
}

// UpdateAssignment saves a and, when it moves to RETURNED without a return date,
// stamps the date and frees the asset. The stored row is locked first so only the
// first of two concurrent returns stamps the date. Both writes commit together.
func (s *gormStore) UpdateAssignment(ctx context.Context, a *model.Assignment, now time.Time) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var stored model.Assignment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "date_returned").
			First(&stored, a.ID).Error
		if err != nil {
			return notFound(err)
		}

		returning := false
		if a.Status == model.AssignmentReturned && a.DateReturned == nil {
			if stored.DateReturned != nil {
				a.DateReturned = stored.DateReturned
			} else {
				a.DateReturned = &now
				returning = true
			}
		}

		if err := tx.Omit(clause.Associations).Save(a).Error; err != nil {
			return fmt.Errorf("save assignment %d: %w", a.ID, err)
		}
		if returning {
			return setAssetStatus(tx, a.AssetID, model.AssetAvailable)
		}
		return nil
	})
}

func (s *gormStore) DeleteAssignment(ctx context.Context, id int64) error {
	return deleteByID(s.db.WithContext(ctx), &model.Assignment{}, id)
}

func setAssetStatus(tx *gorm.DB, assetID int64, status model.AssetStatus) error {
	res := tx.Model(&model.Asset{}).Where("id = ?", assetID).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("set asset %d status: %w", assetID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
