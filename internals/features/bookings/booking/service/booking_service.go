package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"poolbooking_backend/internals/apperrors"
	database "poolbooking_backend/internals/databases"
	"poolbooking_backend/internals/features/bookings/booking/model"
	userModel "poolbooking_backend/internals/features/users/user/model"
	"poolbooking_backend/internals/helpers/dbtime"
	"poolbooking_backend/internals/policy"
)

// CoachLocator tells the ledger who is on duty on a given day.
type CoachLocator interface {
	OnDuty(ctx context.Context, date string) (*userModel.UserModel, error)
}

// Ledger owns the booking lifecycle. Every transition is a conditional
// UPDATE on booking_status so concurrent callers cannot both win.
type Ledger struct {
	db      *gorm.DB
	log     *zap.Logger
	gate    *policy.Gate
	coaches CoachLocator
	clock   dbtime.Clock
	slots   map[string]struct{}
}

func NewLedger(db *gorm.DB, log *zap.Logger, gate *policy.Gate, coaches CoachLocator, clock dbtime.Clock, slots []string) *Ledger {
	offered := make(map[string]struct{}, len(slots))
	for _, s := range slots {
		if norm, err := dbtime.ParseSlot(s); err == nil {
			offered[norm] = struct{}{}
		}
	}
	return &Ledger{
		db:      db,
		log:     log.Named("booking"),
		gate:    gate,
		coaches: coaches,
		clock:   clock,
		slots:   offered,
	}
}

// CreateBooking books slot on date for the actor. The second return value is
// the coach on duty that day, nil when none is assigned.
func (l *Ledger) CreateBooking(ctx context.Context, actor policy.Actor, date, slot string) (*model.BookingModel, *userModel.UserModel, error) {
	if err := l.gate.Authorize(ctx, actor, policy.ActionCreate, policy.Booking, nil); err != nil {
		return nil, nil, err
	}

	fields := map[string]string{}
	day, err := dbtime.ParseDate(date)
	if err != nil {
		fields["date"] = err.Error()
	}
	at, err := dbtime.ParseSlot(slot)
	if err != nil {
		fields["slot"] = err.Error()
	} else if _, ok := l.slots[at]; !ok {
		fields["slot"] = "slot " + at + " is not offered"
	}
	if len(fields) > 0 {
		return nil, nil, apperrors.ValidationFields("invalid booking request", fields)
	}

	today := l.clock.Today()
	if day < today || (day == today && l.clock.SlotPassed(day, at)) {
		return nil, nil, apperrors.Validation("cannot book a session in the past")
	}

	b := &model.BookingModel{
		BookingUserID:      actor.ID,
		BookingSessionDate: day,
		BookingSlot:        at,
		BookingStatus:      model.BookingStatusActive,
	}
	if err := l.db.WithContext(ctx).Omit("User").Create(b).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, nil, apperrors.Conflict("you already have an active booking on %s", day)
		}
		return nil, nil, apperrors.Internal("failed to create booking", err)
	}
	l.log.Info("booking created",
		zap.String("booking_id", b.BookingID.String()),
		zap.String("user_id", actor.ID.String()),
		zap.String("date", day),
		zap.String("slot", at),
	)

	coach, err := l.coaches.OnDuty(ctx, day)
	if err != nil {
		l.log.Warn("on-duty lookup failed", zap.String("date", day), zap.Error(err))
	}
	return b, coach, nil
}

// ListBookings returns the actor's own bookings, most recent first.
func (l *Ledger) ListBookings(ctx context.Context, actor policy.Actor) ([]model.BookingModel, error) {
	if err := l.gate.Authorize(ctx, actor, policy.ActionList, policy.Booking, nil); err != nil {
		return nil, err
	}
	rows := make([]model.BookingModel, 0)
	if err := l.db.WithContext(ctx).
		Where("booking_user_id = ?", actor.ID).
		Order("booking_session_date DESC").
		Order("booking_slot DESC").
		Order("booking_created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Internal("failed to list bookings", err)
	}
	return rows, nil
}

func (l *Ledger) load(ctx context.Context, id uuid.UUID) (*model.BookingModel, error) {
	var b model.BookingModel
	err := l.db.WithContext(ctx).Where("booking_id = ?", id).Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("booking %s not found", id)
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load booking", err)
	}
	return &b, nil
}

// GetBooking lets the owner or staff/admin read a single booking.
func (l *Ledger) GetBooking(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.BookingModel, error) {
	b, err := l.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.gate.Authorize(ctx, actor, policy.ActionRead, policy.Booking, *b); err != nil {
		return nil, err
	}
	return b, nil
}

// CancelBooking moves an active booking to cancelled.
func (l *Ledger) CancelBooking(ctx context.Context, actor policy.Actor, id uuid.UUID) (*model.BookingModel, error) {
	b, err := l.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := l.gate.Authorize(ctx, actor, policy.ActionCancel, policy.Booking, *b); err != nil {
		return nil, err
	}
	if b.BookingStatus != model.BookingStatusActive {
		return nil, apperrors.InvalidState("booking is already %s", b.BookingStatus)
	}

	now := l.clock.NowInPool().UTC()
	ok, err := l.transition(ctx, b.BookingID, map[string]any{
		"booking_status":       model.BookingStatusCancelled,
		"booking_cancelled_at": now,
		"booking_cancelled_by": actor.ID,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.InvalidState("booking is no longer active")
	}
	l.log.Info("booking cancelled", zap.String("booking_id", id.String()), zap.String("by", actor.ID.String()))
	return l.load(ctx, id)
}

// VerifyBooking marks today's booking matching identifier (verification code
// or booking id) as attended. Of two concurrent scans exactly one succeeds.
func (l *Ledger) VerifyBooking(ctx context.Context, actor policy.Actor, identifier string) (*model.BookingModel, error) {
	if err := l.gate.Authorize(ctx, actor, policy.ActionVerify, policy.Booking, nil); err != nil {
		return nil, err
	}
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.ValidationFields("identifier is required", map[string]string{"identifier": "identifier is required."})
	}

	today := l.clock.Today()
	q := l.db.WithContext(ctx).Where("booking_session_date = ?", today)
	if id, err := uuid.Parse(identifier); err == nil {
		q = q.Where("booking_verification_code = ? OR booking_id = ?", identifier, id)
	} else {
		q = q.Where("booking_verification_code = ?", identifier)
	}

	var b model.BookingModel
	err := q.Take(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("no booking for today matches this code")
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load booking", err)
	}
	if b.BookingStatus != model.BookingStatusActive {
		return nil, apperrors.InvalidState("booking is already %s", b.BookingStatus)
	}

	now := l.clock.NowInPool().UTC()
	ok, err := l.transition(ctx, b.BookingID, map[string]any{
		"booking_status":      model.BookingStatusVerified,
		"booking_verified_at": now,
		"booking_verified_by": actor.ID,
	})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.InvalidState("booking has already been verified or cancelled")
	}
	l.log.Info("booking verified", zap.String("booking_id", b.BookingID.String()), zap.String("by", actor.ID.String()))

	out, err := l.load(ctx, b.BookingID)
	if err != nil {
		return nil, err
	}
	l.attachUser(ctx, out)
	return out, nil
}

// transition applies updates only while the booking is still active and
// reports whether this call made the change.
func (l *Ledger) transition(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error) {
	res := l.db.WithContext(ctx).
		Model(&model.BookingModel{}).
		Where("booking_id = ? AND booking_status = ?", id, model.BookingStatusActive).
		Updates(updates)
	if res.Error != nil {
		return false, apperrors.Internal("failed to update booking", res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (l *Ledger) attachUser(ctx context.Context, b *model.BookingModel) {
	var u userModel.UserModel
	if err := l.db.WithContext(ctx).Where("id = ?", b.BookingUserID).Take(&u).Error; err == nil {
		b.User = &u
	}
}

// ListBookingsByDate is the front-desk view of one day, by slot. An empty
// date means today.
func (l *Ledger) ListBookingsByDate(ctx context.Context, actor policy.Actor, date string) ([]model.BookingModel, error) {
	if err := l.gate.Authorize(ctx, actor, policy.ActionListDay, policy.Booking, nil); err != nil {
		return nil, err
	}
	day := l.clock.Today()
	if strings.TrimSpace(date) != "" {
		var err error
		if day, err = dbtime.ParseDate(date); err != nil {
			return nil, apperrors.Validation("%s", err.Error())
		}
	}

	rows := make([]model.BookingModel, 0)
	if err := l.db.WithContext(ctx).
		Preload("User").
		Where("booking_session_date = ?", day).
		Order("booking_slot ASC").
		Order("booking_created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Internal("failed to list bookings", err)
	}
	return rows, nil
}
