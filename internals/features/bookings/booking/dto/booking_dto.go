package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"poolbooking_backend/internals/features/bookings/booking/model"
	userModel "poolbooking_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

type CreateBookingRequest struct {
	Date string `json:"date" validate:"required"`
	Slot string `json:"slot" validate:"required"`
}

func (r *CreateBookingRequest) Normalize() {
	r.Date = strings.TrimSpace(r.Date)
	r.Slot = strings.TrimSpace(r.Slot)
}

// VerifyBookingRequest carries the scanned QR payload or a booking id.
type VerifyBookingRequest struct {
	Identifier string `json:"identifier" validate:"required,max=64"`
}

func (r *VerifyBookingRequest) Normalize() {
	r.Identifier = strings.TrimSpace(r.Identifier)
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type PersonBrief struct {
	ID             uuid.UUID `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email,omitempty"`
	StudentNumber  *string   `json:"student_number,omitempty"`
	Specialization *string   `json:"specialization,omitempty"`
}

func briefOf(u *userModel.UserModel) *PersonBrief {
	if u == nil {
		return nil
	}
	return &PersonBrief{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		StudentNumber:  u.StudentNumber,
		Specialization: u.Specialization,
	}
}

type BookingResponse struct {
	ID               uuid.UUID           `json:"id"`
	UserID           uuid.UUID           `json:"user_id"`
	User             *PersonBrief        `json:"user,omitempty"`
	SessionDate      string              `json:"session_date"`
	Slot             string              `json:"slot"`
	Status           model.BookingStatus `json:"status"`
	VerificationCode string              `json:"verification_code"`
	VerifiedAt       *time.Time          `json:"verified_at,omitempty"`
	VerifiedBy       *uuid.UUID          `json:"verified_by,omitempty"`
	CancelledAt      *time.Time          `json:"cancelled_at,omitempty"`
	CancelledBy      *uuid.UUID          `json:"cancelled_by,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`

	// set on create only
	OnDutyCoach *PersonBrief `json:"on_duty_coach,omitempty"`
}

func FromModel(m *model.BookingModel) *BookingResponse {
	if m == nil {
		return nil
	}
	return &BookingResponse{
		ID:               m.BookingID,
		UserID:           m.BookingUserID,
		User:             briefOf(m.User),
		SessionDate:      m.BookingSessionDate,
		Slot:             m.BookingSlot,
		Status:           m.BookingStatus,
		VerificationCode: m.BookingVerificationCode,
		VerifiedAt:       m.BookingVerifiedAt,
		VerifiedBy:       m.BookingVerifiedBy,
		CancelledAt:      m.BookingCancelledAt,
		CancelledBy:      m.BookingCancelledBy,
		CreatedAt:        m.BookingCreatedAt,
		UpdatedAt:        m.BookingUpdatedAt,
	}
}

func FromModelList(list []model.BookingModel) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

// WithCoach annotates a freshly created booking with the coach on duty.
func (r *BookingResponse) WithCoach(coach *userModel.UserModel) *BookingResponse {
	if r != nil && coach != nil {
		b := briefOf(coach)
		b.Email = ""
		r.OnDutyCoach = b
	}
	return r
}

/* =======================================================
   STATISTICS
   ======================================================= */

// StatCounts splits bookings by outcome. NoShow counts bookings still active
// after their day has passed; Active counts the ones still upcoming.
type StatCounts struct {
	Total     int64 `json:"total"`
	Active    int64 `json:"active"`
	Cancelled int64 `json:"cancelled"`
	Verified  int64 `json:"verified"`
	NoShow    int64 `json:"no_show"`
}

func (c *StatCounts) Add(o StatCounts) {
	c.Total += o.Total
	c.Active += o.Active
	c.Cancelled += o.Cancelled
	c.Verified += o.Verified
	c.NoShow += o.NoShow
}

type DayStats struct {
	Date string `json:"date"`
	StatCounts
}

type StatsResponse struct {
	From   string     `json:"from"`
	To     string     `json:"to"`
	Days   []DayStats `json:"days"`
	Totals StatCounts `json:"totals"`
}
