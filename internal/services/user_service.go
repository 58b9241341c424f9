package services

import (
	"context"

	apperrors "wealth/internal/errors"
	"wealth/internal/identity"
	"wealth/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	owners OwnerResolver
}

// NewUserService creates a new UserServicer.
func NewUserService(owners OwnerResolver) UserServicer {
	return &userService{owners: owners}
}

// GetProfile returns the caller's user record.
func (s *userService) GetProfile(ctx context.Context, ident *identity.Identity) (*models.User, error) {
	user, err := s.owners.Lookup(ctx, ident)
	if err != nil {
		return nil, apperrors.WithOperation("Failed to get profile", err)
	}
	return user, nil
}
