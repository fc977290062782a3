package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"asset-tracking-backend/internal/model"
)

func (s *gormStore) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *gormStore) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindUserByUsernameOrEmail prefers a username match over an email match.
func (s *gormStore) FindUserByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error) {
	u, err := s.GetUserByUsername(ctx, username)
	if !errors.Is(err, ErrNotFound) {
		return u, err
	}
	if email == "" {
		return nil, ErrNotFound
	}

	var byEmail model.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Order("id").First(&byEmail).Error; err != nil {
		return nil, notFound(err)
	}
	return &byEmail, nil
}

// ListUsers returns every user ordered by username.
func (s *gormStore) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormStore) CreateUser(ctx context.Context, u *model.User) error {
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user %q: %w", u.Username, err)
	}
	return nil
}

func (s *gormStore) SaveUser(ctx context.Context, u *model.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *gormStore) SetPassword(ctx context.Context, userID int64, hash string) error {
	res := s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	return s.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("last_login", at).Error
}
