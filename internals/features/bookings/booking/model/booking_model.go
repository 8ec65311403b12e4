package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "poolbooking_backend/internals/features/users/user/model"
)

type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusVerified  BookingStatus = "verified"
)

// BookingModel is one user's reservation of one slot on one day. Status only
// moves active → cancelled or active → verified. The partial unique index
// uq_bookings_user_day_active (see databases.Migrate) allows one active
// booking per user per day.
type BookingModel struct {
	BookingID     uuid.UUID `gorm:"column:booking_id;type:uuid;primaryKey" json:"booking_id"`
	BookingUserID uuid.UUID `gorm:"column:booking_user_id;type:uuid;not null;index" json:"booking_user_id"`

	BookingSessionDate string        `gorm:"column:booking_session_date;type:varchar(10);not null;index" json:"booking_session_date"`
	BookingSlot        string        `gorm:"column:booking_slot;type:varchar(5);not null" json:"booking_slot"`
	BookingStatus      BookingStatus `gorm:"column:booking_status;type:varchar(12);not null;default:'active';index" json:"booking_status"`

	// QR payload scanned at the pool entrance
	BookingVerificationCode string `gorm:"column:booking_verification_code;type:varchar(32);not null;uniqueIndex" json:"booking_verification_code"`

	BookingVerifiedAt  *time.Time `gorm:"column:booking_verified_at" json:"booking_verified_at,omitempty"`
	BookingVerifiedBy  *uuid.UUID `gorm:"column:booking_verified_by;type:uuid" json:"booking_verified_by,omitempty"`
	BookingCancelledAt *time.Time `gorm:"column:booking_cancelled_at" json:"booking_cancelled_at,omitempty"`
	BookingCancelledBy *uuid.UUID `gorm:"column:booking_cancelled_by;type:uuid" json:"booking_cancelled_by,omitempty"`

	BookingCreatedAt time.Time `gorm:"column:booking_created_at;autoCreateTime" json:"booking_created_at"`
	BookingUpdatedAt time.Time `gorm:"column:booking_updated_at;autoUpdateTime" json:"booking_updated_at"`

	User *userModel.UserModel `gorm:"foreignKey:BookingUserID;references:ID" json:"user,omitempty"`
}

func (BookingModel) TableName() string { return "bookings" }

func (b BookingModel) OwnerID() uuid.UUID { return b.BookingUserID }

func (b *BookingModel) BeforeCreate(_ *gorm.DB) error {
	if b.BookingID == uuid.Nil {
		b.BookingID = uuid.New()
	}
	if b.BookingVerificationCode == "" {
		b.BookingVerificationCode = NewVerificationCode()
	}
	if b.BookingStatus == "" {
		b.BookingStatus = BookingStatusActive
	}
	return nil
}

// NewVerificationCode returns 32 random hex characters.
func NewVerificationCode() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
