package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"asset-tracking-backend/internal/model"
)

func (s *gormStore) ListAssets(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	if err := s.db.WithContext(ctx).Order("id").Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

func (s *gormStore) GetAsset(ctx context.Context, id int64) (*model.Asset, error) {
	var a model.Asset
	if err := s.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (s *gormStore) CreateAsset(ctx context.Context, a *model.Asset) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Create(a).Error
}

func (s *gormStore) SaveAsset(ctx context.Context, a *model.Asset) error {
	return s.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error
}

// DeleteAsset removes the asset together with its assignments and tickets.
func (s *gormStore) DeleteAsset(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("asset_id = ?", id).Delete(&model.RepairTicket{}).Error; err != nil {
			return err
		}
		if err := tx.Where("asset_id = ?", id).Delete(&model.Assignment{}).Error; err != nil {
			return err
		}
		return deleteByID(tx, &model.Asset{}, id)
	})
}

// SerialNumberTaken reports whether another asset already uses serial.
func (s *gormStore) SerialNumberTaken(ctx context.Context, serial string, excludeID int64) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Asset{}).
		Where("serial_number = ? AND id <> ?", serial, excludeID).
		Count(&n).Error
	return n > 0, err
}
