package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"poolbooking_backend/internals/features/coaches/allocation/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type AssignCoachRequest struct {
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	CoachID string `json:"coach_id" validate:"required,uuid"`
}

func (r *AssignCoachRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.CoachID = strings.TrimSpace(r.CoachID)
}

// AssignRecurringRequest carries an RFC 5545 recurrence, e.g.
// "FREQ=WEEKLY;BYDAY=MO,WE;COUNT=12", anchored at StartDate.
type AssignRecurringRequest struct {
	RRule     string `json:"rrule" validate:"required,max=500"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	CoachID   string `json:"coach_id" validate:"required,uuid"`
}

func (r *AssignRecurringRequest) Normalize() {
	r.RRule = strings.TrimSpace(r.RRule)
	r.StartDate = strings.TrimSpace(r.StartDate)
	r.CoachID = strings.TrimSpace(r.CoachID)
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type CoachSummary struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Specialization *string   `json:"specialization,omitempty"`
}

type AllocationResponse struct {
	ID        uuid.UUID     `json:"id"`
	Date      string        `json:"date"`
	DayOfWeek string        `json:"day_of_week"`
	CoachID   uuid.UUID     `json:"coach_id"`
	Coach     *CoachSummary `json:"coach,omitempty"`
	CreatedBy uuid.UUID     `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func FromModel(m *model.CoachAllocationModel) *AllocationResponse {
	if m == nil {
		return nil
	}
	out := &AllocationResponse{
		ID:        m.AllocationID,
		Date:      m.AllocationDate,
		DayOfWeek: m.AllocationDayOfWeek,
		CoachID:   m.AllocationCoachID,
		CreatedBy: m.AllocationCreatedBy,
		CreatedAt: m.AllocationCreatedAt,
		UpdatedAt: m.AllocationUpdatedAt,
	}
	if m.Coach != nil {
		out.Coach = &CoachSummary{
			ID:             m.Coach.ID,
			FullName:       m.Coach.FullName,
			Email:          m.Coach.Email,
			Specialization: m.Coach.Specialization,
		}
	}
	return out
}

func FromModelList(list []model.CoachAllocationModel) []AllocationResponse {
	out := make([]AllocationResponse, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

// RecurringResult reports each generated date as assigned or already taken.
type RecurringResult struct {
	CoachID   uuid.UUID `json:"coach_id"`
	Assigned  []string  `json:"assigned"`
	Conflicts []string  `json:"conflicts"`
}
