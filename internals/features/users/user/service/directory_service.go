package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/constants"
	database "poolbooking_backend/internals/databases"
	authHelper "poolbooking_backend/internals/features/users/auth/helper"
	"poolbooking_backend/internals/features/users/user/dto"
	"poolbooking_backend/internals/features/users/user/model"
	helper "poolbooking_backend/internals/helpers"
	"poolbooking_backend/internals/policy"
)

// Directory is the account store every other feature resolves users through.
type Directory struct {
	db   *gorm.DB
	log  *zap.Logger
	gate *policy.Gate
}

func NewDirectory(db *gorm.DB, log *zap.Logger, gate *policy.Gate) *Directory {
	return &Directory{db: db, log: log.Named("directory"), gate: gate}
}

// ResolveAccount returns the account or a NotFound error.
func (d *Directory) ResolveAccount(ctx context.Context, id uuid.UUID) (*model.UserModel, error) {
	var u model.UserModel
	if err := d.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("account %s not found", id)
		}
		return nil, apperrors.Internal("failed to load account", err)
	}
	return &u, nil
}

// FindByEmail is used by login; NotFound when absent.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*model.UserModel, error) {
	var u model.UserModel
	if err := d.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("account not found")
		}
		return nil, apperrors.Internal("failed to load account", err)
	}
	return &u, nil
}

// AccountsByRole lists active accounts holding role, ordered by name.
func (d *Directory) AccountsByRole(ctx context.Context, role string) ([]model.UserModel, error) {
	if !constants.IsValidRole(role) {
		return nil, apperrors.Validation("unknown role %q", role)
	}
	var out []model.UserModel
	if err := d.db.WithContext(ctx).
		Where("role = ? AND is_active = ?", role, true).
		Order("full_name ASC").
		Find(&out).Error; err != nil {
		return nil, apperrors.Internal("failed to list accounts", err)
	}
	return out, nil
}

// List is the admin listing, optionally filtered by role.
func (d *Directory) List(ctx context.Context, actor policy.Actor, role string, p helper.Params) ([]model.UserModel, int64, error) {
	if err := d.gate.Authorize(ctx, actor, policy.ActionList, policy.Account, nil); err != nil {
		return nil, 0, err
	}
	tx := d.db.WithContext(ctx).Model(&model.UserModel{})
	if role != "" {
		if !constants.IsValidRole(role) {
			return nil, 0, apperrors.Validation("unknown role %q", role)
		}
		tx = tx.Where("role = ?", role)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count accounts", err)
	}
	var rows []model.UserModel
	if err := tx.Order("created_at DESC").Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to list accounts", err)
	}
	return rows, total, nil
}

// Get returns one account to an admin or to the account itself.
func (d *Directory) Get(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.UserModel, error) {
	u, err := d.ResolveAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := d.gate.Authorize(ctx, actor, policy.ActionRead, policy.Account, *u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateAccount validates, hashes and inserts. No authorization: callers are
// registration, the seeder, and AdminCreate.
func (d *Directory) CreateAccount(ctx context.Context, req dto.CreateUserRequest) (*model.UserModel, error) {
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}
	if req.Specialization != nil && req.Role != constants.RoleCoach {
		return nil, apperrors.Validation("specialization is only valid for coaches")
	}

	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}
	u := req.ToModel(hash)
	if err := d.db.WithContext(ctx).Create(u).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("an account with this email, QR code or student number already exists")
		}
		return nil, apperrors.Internal("failed to create account", err)
	}
	d.log.Info("account created", zap.String("id", u.ID.String()), zap.String("role", u.Role))
	return u, nil
}

func (d *Directory) AdminCreate(ctx context.Context, actor policy.Actor, req dto.CreateUserRequest) (*model.UserModel, error) {
	if err := d.gate.Authorize(ctx, actor, policy.ActionCreate, policy.Account, nil); err != nil {
		return nil, err
	}
	return d.CreateAccount(ctx, req)
}

// DeleteAccount hard-deletes an account. Notices keep their author snapshot;
// bookings and allocations keep the dangling id for statistics.
func (d *Directory) DeleteAccount(ctx context.Context, actor policy.Actor, id uuid.UUID) error {
	if err := d.gate.Authorize(ctx, actor, policy.ActionDelete, policy.Account, nil); err != nil {
		return err
	}
	if actor.ID == id {
		return apperrors.Validation("admins cannot delete their own account")
	}
	res := d.db.WithContext(ctx).Delete(&model.UserModel{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Internal("failed to delete account", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFound("account %s not found", id)
	}
	d.log.Info("account deleted", zap.String("id", id.String()), zap.String("by", actor.ID.String()))
	return nil
}

// Deactivate blocks an account from logging in. Tokens already issued stop
// working on their next request.
func (d *Directory) Deactivate(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.UserModel, error) {
	return d.setActive(ctx, actor, id, false)
}

func (d *Directory) Reactivate(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.UserModel, error) {
	return d.setActive(ctx, actor, id, true)
}

// setActive uses an explicit column update; the default:true tag keeps
// Create and struct Updates from storing false.
func (d *Directory) setActive(ctx context.Context, actor policy.Actor, id uuid.UUID, active bool) (*model.UserModel, error) {
	action := policy.ActionReactivate
	if !active {
		action = policy.ActionDeactivate
	}
	if err := d.gate.Authorize(ctx, actor, action, policy.Account, nil); err != nil {
		return nil, err
	}
	if !active && actor.ID == id {
		return nil, apperrors.Validation("admins cannot deactivate their own account")
	}

	res := d.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return nil, apperrors.Internal("failed to update account", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.NotFound("account %s not found", id)
	}
	d.log.Info("account state changed",
		zap.String("id", id.String()),
		zap.Bool("active", active),
		zap.String("by", actor.ID.String()),
	)
	return d.ResolveAccount(ctx, id)
}

// UpdateCoachProfile is the coach self-service edit.
func (d *Directory) UpdateCoachProfile(ctx context.Context, actor policy.Actor, req dto.UpdateCoachProfileRequest) (*model.UserModel, error) {
	if err := d.gate.Authorize(ctx, actor, policy.ActionUpdateSelf, policy.Account, nil); err != nil {
		return nil, err
	}
	req.Normalize()
	if err := helper.ValidateStruct(&req); err != nil {
		return nil, err
	}

	if updates := req.Updates(); len(updates) > 0 {
		res := d.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", actor.ID).Updates(updates)
		if res.Error != nil {
			return nil, apperrors.Internal("failed to update profile", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, apperrors.NotFound("account %s not found", actor.ID)
		}
	}
	return d.ResolveAccount(ctx, actor.ID)
}

// RequireRole resolves id and checks it is an active account holding role.
func (d *Directory) RequireRole(ctx context.Context, id uuid.UUID, role string) (*model.UserModel, error) {
	u, err := d.ResolveAccount(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Validation("%s %s does not exist", role, id)
		}
		return nil, err
	}
	if u.Role != role || !u.IsActive {
		return nil, apperrors.Validation("account %s is not an active %s", id, role)
	}
	return u, nil
}
