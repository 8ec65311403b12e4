package service

import (
	"context"

	"github.com/google/uuid"

	"poolbooking_backend/internals/apperrors"
	authHelper "poolbooking_backend/internals/features/users/auth/helper"
	authRepo "poolbooking_backend/internals/features/users/auth/repository"
)

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	if len(next) < 8 {
		return apperrors.ValidationFields("validation failed", map[string]string{
			"new_password": "new_password must be at least 8 characters.",
		})
	}

	user, err := s.directory.ResolveAccount(ctx, userID)
	if err != nil {
		return err
	}
	if err := authHelper.CheckPasswordHash(user.Password, current); err != nil {
		return apperrors.Unauthenticated("current password is incorrect")
	}

	hashed, err := authHelper.HashPassword(next)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}
	if err := authRepo.UpdateUserPassword(ctx, s.db, userID, hashed); err != nil {
		return apperrors.Internal("failed to update password", err)
	}
	return nil
}
