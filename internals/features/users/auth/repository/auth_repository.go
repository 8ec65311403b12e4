// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	authModel "poolbooking_backend/internals/features/users/auth/model"
	userModel "poolbooking_backend/internals/features/users/user/model"
)

/* ====================== USER ====================== */

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, hashed string) error {
	return db.WithContext(ctx).Model(&userModel.UserModel{}).
		Where("id = ?", userID).
		Update("password", hashed).Error
}

// IsUserActive reports whether the account exists and is active.
func IsUserActive(ctx context.Context, db *gorm.DB, userID uuid.UUID) (bool, error) {
	var user struct{ IsActive bool }
	err := db.WithContext(ctx).Table("users").Select("is_active").Where("id = ?", userID).Take(&user).Error
	if err != nil {
		return false, err
	}
	return user.IsActive, nil
}

/* ====================== BLACKLIST TOKEN ====================== */

func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// BlacklistToken is idempotent: logging out twice keeps one row.
func BlacklistToken(ctx context.Context, db *gorm.DB, token string, expiresAt time.Time) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&authModel.TokenBlacklist{
			Token:     HashToken(token),
			ExpiredAt: expiresAt.UTC(),
		}).Error
}

func IsTokenBlacklisted(ctx context.Context, db *gorm.DB, token string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token = ?", HashToken(token)).
		Count(&n).Error
	return n > 0, err
}

// CleanupExpiredBlacklist removes entries that expired before cutoff.
func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expired_at < ?", cutoff.UTC()).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
