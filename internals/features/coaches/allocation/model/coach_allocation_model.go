package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "poolbooking_backend/internals/features/users/user/model"
)

// CoachAllocationModel assigns one coach to one calendar day.
type CoachAllocationModel struct {
	AllocationID        uuid.UUID `gorm:"column:allocation_id;type:uuid;primaryKey" json:"allocation_id"`
	AllocationDate      string    `gorm:"column:allocation_date;type:varchar(10);not null;uniqueIndex:uq_coach_allocations_date" json:"allocation_date"`
	AllocationDayOfWeek string    `gorm:"column:allocation_day_of_week;type:varchar(10);not null" json:"allocation_day_of_week"`
	AllocationCoachID   uuid.UUID `gorm:"column:allocation_coach_id;type:uuid;not null;index" json:"allocation_coach_id"`
	AllocationCreatedBy uuid.UUID `gorm:"column:allocation_created_by;type:uuid;not null" json:"allocation_created_by"`

	AllocationCreatedAt time.Time `gorm:"column:allocation_created_at;autoCreateTime" json:"allocation_created_at"`
	AllocationUpdatedAt time.Time `gorm:"column:allocation_updated_at;autoUpdateTime" json:"allocation_updated_at"`

	Coach *userModel.UserModel `gorm:"foreignKey:AllocationCoachID;references:ID" json:"coach,omitempty"`
}

func (CoachAllocationModel) TableName() string { return "coach_allocations" }

func (m *CoachAllocationModel) BeforeCreate(_ *gorm.DB) error {
	if m.AllocationID == uuid.Nil {
		m.AllocationID = uuid.New()
	}
	return nil
}
