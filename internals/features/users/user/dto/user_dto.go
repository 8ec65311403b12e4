package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	uModel "poolbooking_backend/internals/features/users/user/model"
)

/* =======================================================
   REQUEST DTOs
   ======================================================= */

// CreateUserRequest is used by admins and the seeder.
type CreateUserRequest struct {
	UserName       string  `json:"user_name" yaml:"user_name" validate:"required,min=3,max=50"`
	FullName       string  `json:"full_name" yaml:"full_name" validate:"required,min=3,max=100"`
	Email          string  `json:"email" yaml:"email" validate:"required,email,max=255"`
	Password       string  `json:"password" yaml:"password" validate:"required,min=8"`
	Role           string  `json:"role" yaml:"role" validate:"required,oneof=student coach staff admin maintenance"`
	Specialization *string `json:"specialization,omitempty" yaml:"specialization" validate:"omitempty,max=100"`
	QRCode         *string `json:"qr_code,omitempty" yaml:"qr_code" validate:"omitempty,max=64"`
	Department     *string `json:"department,omitempty" yaml:"department" validate:"omitempty,max=100"`
	StudentNumber  *string `json:"student_number,omitempty" yaml:"student_number" validate:"omitempty,max=50"`
}

func (r *CreateUserRequest) Normalize() {
	r.UserName = strings.TrimSpace(r.UserName)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.Role = strings.TrimSpace(strings.ToLower(r.Role))
	r.Specialization = trimPtr(r.Specialization)
	r.QRCode = trimPtr(r.QRCode)
	r.Department = trimPtr(r.Department)
	r.StudentNumber = trimPtr(r.StudentNumber)
}

// ToModel converts to a model. Password must already be hashed.
func (r *CreateUserRequest) ToModel(passwordHash string) *uModel.UserModel {
	return &uModel.UserModel{
		UserName:       r.UserName,
		FullName:       r.FullName,
		Email:          r.Email,
		Password:       passwordHash,
		Role:           r.Role,
		Specialization: r.Specialization,
		QRCode:         r.QRCode,
		Department:     r.Department,
		StudentNumber:  r.StudentNumber,
		IsActive:       true,
	}
}

// UpdateCoachProfileRequest is the coach self-service patch.
type UpdateCoachProfileRequest struct {
	FullName       *string `json:"full_name,omitempty" validate:"omitempty,min=3,max=100"`
	Specialization *string `json:"specialization,omitempty" validate:"omitempty,max=100"`
	Department     *string `json:"department,omitempty" validate:"omitempty,max=100"`
}

func (r *UpdateCoachProfileRequest) Normalize() {
	r.FullName = trimPtr(r.FullName)
	r.Specialization = trimPtr(r.Specialization)
	r.Department = trimPtr(r.Department)
}

// Updates returns the column map for a partial update.
func (r *UpdateCoachProfileRequest) Updates() map[string]any {
	out := map[string]any{}
	if r.FullName != nil {
		out["full_name"] = *r.FullName
	}
	if r.Specialization != nil {
		out["specialization"] = *r.Specialization
	}
	if r.Department != nil {
		out["department"] = *r.Department
	}
	return out
}

/* =======================================================
   RESPONSE DTOs
   ======================================================= */

type UserResponse struct {
	ID             uuid.UUID `json:"id"`
	UserName       string    `json:"user_name"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Role           string    `json:"role"`
	Specialization *string   `json:"specialization,omitempty"`
	QRCode         *string   `json:"qr_code,omitempty"`
	Department     *string   `json:"department,omitempty"`
	StudentNumber  *string   `json:"student_number,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func FromModel(m *uModel.UserModel) *UserResponse {
	if m == nil {
		return nil
	}
	return &UserResponse{
		ID:             m.ID,
		UserName:       m.UserName,
		FullName:       m.FullName,
		Email:          m.Email,
		Role:           m.Role,
		Specialization: m.Specialization,
		QRCode:         m.QRCode,
		Department:     m.Department,
		StudentNumber:  m.StudentNumber,
		IsActive:       m.IsActive,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func FromModelList(list []uModel.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, *FromModel(&list[i]))
	}
	return out
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
