// Package policy holds the per-endpoint authorization rules.
package policy

import (
	"asset-tracking-backend/internal/apperr"
	"asset-tracking-backend/internal/model"
)

// Policy decides whether the caller may proceed. A nil caller means an anonymous request.
type Policy func(caller *model.User) error

// Authenticated admits any active, authenticated user.
func Authenticated(caller *model.User) error {
	if caller == nil || !caller.IsActive {
		return apperr.Unauthorized("Authentication credentials were not provided.")
	}
	return nil
}

// StaffOnly admits staff, superusers and users with the ADMIN role.
func StaffOnly(caller *model.User) error {
	if err := Authenticated(caller); err != nil {
		return err
	}
	if caller.IsStaff || caller.IsSuperuser || caller.Role == model.RoleAdmin {
		return nil
	}
	return apperr.Forbidden("You do not have permission to perform this action.")
}
