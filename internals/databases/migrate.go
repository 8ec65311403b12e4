package database

import (
	"fmt"

	"gorm.io/gorm"

	bookingModel "poolbooking_backend/internals/features/bookings/booking/model"
	allocationModel "poolbooking_backend/internals/features/coaches/allocation/model"
	noticeModel "poolbooking_backend/internals/features/notices/notice/model"
	authModel "poolbooking_backend/internals/features/users/auth/model"
	userModel "poolbooking_backend/internals/features/users/user/model"
)

// partialIndexes are the constraints AutoMigrate cannot express. Both
// postgres and sqlite accept this syntax.
var partialIndexes = []string{
	// one active booking per user per day
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_bookings_user_day_active
		ON bookings (booking_user_id, booking_session_date)
		WHERE booking_status = 'active'`,
}

// Migrate creates or updates every table and the constraints that carry the
// domain invariants.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&userModel.UserModel{},
		&authModel.TokenBlacklist{},
		&allocationModel.CoachAllocationModel{},
		&bookingModel.BookingModel{},
		&noticeModel.NoticeModel{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}
