package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is an account in the users table. Role-specific columns are
// nullable and only meaningful for their role.
type UserModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"size:50;not null" json:"user_name"`
	FullName string    `gorm:"size:100;not null" json:"full_name"`
	Email    string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`
	Role     string    `gorm:"type:varchar(20);not null;default:'student';index" json:"role"`

	// coach
	Specialization *string `gorm:"size:100" json:"specialization,omitempty"`
	// scannable identity card code
	QRCode *string `gorm:"size:64;uniqueIndex" json:"qr_code,omitempty"`
	// staff / coach / student
	Department *string `gorm:"size:100" json:"department,omitempty"`
	// student
	StudentNumber *string `gorm:"size:50;uniqueIndex" json:"student_number,omitempty"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// OwnerID lets the policy gate treat an account as owned by itself.
func (u UserModel) OwnerID() uuid.UUID { return u.ID }

// BeforeCreate assigns the id in Go so sqlite and postgres behave the same.
func (u *UserModel) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
