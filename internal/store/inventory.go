package store

import (
	"context"

	"asset-tracking-backend/internal/model"
)

func (s *gormStore) ListInventory(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *gormStore) GetInventoryItem(ctx context.Context, id int64) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := s.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &item, nil
}

func (s *gormStore) CreateInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *gormStore) SaveInventoryItem(ctx context.Context, item *model.InventoryItem) error {
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *gormStore) DeleteInventoryItem(ctx context.Context, id int64) error {
	return deleteByID(s.db.WithContext(ctx), &model.InventoryItem{}, id)
}
