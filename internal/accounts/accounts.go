// Package accounts creates users and bootstraps the administrator.
package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"asset-tracking-backend/config"
	"asset-tracking-backend/internal/apperr"
	"asset-tracking-backend/internal/auth"
	"asset-tracking-backend/internal/model"
	"asset-tracking-backend/internal/store"
)

// NewUser is the input for creating a regular account.
type NewUser struct {
	Username string
	Email    string
	Password string
	Role     model.Role
}

// Service owns account creation rules shared by the API and the CLI.
type Service struct {
	store     store.Store
	passwords *auth.PasswordHasher
	now       func() time.Time
}

// NewService creates an account service.
func NewService(s store.Store, passwords *auth.PasswordHasher) *Service {
	return &Service{
		store:     s,
		passwords: passwords,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// CreateUser validates in and stores a new active, non-staff user. Role defaults to EMPLOYEE.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Role == "" {
		in.Role = model.RoleEmployee
	}

	fields := map[string][]string{}
	if in.Username == "" {
		fields["username"] = append(fields["username"], "This field is required.")
	}
	if in.Password == "" {
		fields["password"] = append(fields["password"], "This field is required.")
	}
	if !in.Role.Valid() {
		fields["role"] = append(fields["role"], `"`+string(in.Role)+`" is not a valid choice.`)
	}
	if len(fields) > 0 {
		return nil, apperr.FieldErrors(fields)
	}

	_, err := s.store.GetUserByUsername(ctx, in.Username)
	switch {
	case err == nil:
		return nil, apperr.FieldErrors(map[string][]string{
			"username": {"A user with that username already exists."},
		})
	case !errors.Is(err, store.ErrNotFound):
		return nil, err
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:   in.Username,
		Email:      strings.TrimSpace(in.Email),
		Password:   hash,
		Role:       in.Role,
		IsActive:   true,
		DateJoined: s.now(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureAdmin finds the administrator by username or email, creating it when missing,
// then forces staff and superuser flags and resets the password. It reports whether a user was created.
func (s *Service) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) (*model.User, bool, error) {
	hash, err := s.passwords.Hash(cfg.Password)
	if err != nil {
		return nil, false, err
	}

	u, err := s.store.FindUserByUsernameOrEmail(ctx, cfg.Username, cfg.Email)
	created := false
	switch {
	case errors.Is(err, store.ErrNotFound):
		u = &model.User{
			Username:   cfg.Username,
			Email:      cfg.Email,
			Role:       model.RoleAdmin,
			DateJoined: s.now(),
		}
		created = true
	case err != nil:
		return nil, false, err
	}

	u.Password = hash
	u.IsStaff = true
	u.IsSuperuser = true
	u.IsActive = true

	if created {
		err = s.store.CreateUser(ctx, u)
	} else {
		err = s.store.SaveUser(ctx, u)
	}
	if err != nil {
		return nil, false, err
	}
	return u, created, nil
}
