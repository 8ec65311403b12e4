package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/constants"
	database "poolbooking_backend/internals/databases"
	"poolbooking_backend/internals/features/coaches/allocation/dto"
	"poolbooking_backend/internals/features/coaches/allocation/model"
	userModel "poolbooking_backend/internals/features/users/user/model"
	userService "poolbooking_backend/internals/features/users/user/service"
	"poolbooking_backend/internals/helpers/dbtime"
	"poolbooking_backend/internals/policy"
)

const (
	// MaxRecurringDates caps how many days one recurrence may assign.
	MaxRecurringDates = 366

	// MaxListDays caps ListAllocations ranges.
	MaxListDays = 366

	defaultListDays = 30
)

// Ledger is the coach-per-day calendar. The unique index on
// allocation_date is what keeps it to one coach per day.
type Ledger struct {
	db        *gorm.DB
	log       *zap.Logger
	gate      *policy.Gate
	directory *userService.Directory
	clock     dbtime.Clock
}

func NewLedger(db *gorm.DB, log *zap.Logger, gate *policy.Gate, directory *userService.Directory, clock dbtime.Clock) *Ledger {
	return &Ledger{db: db, log: log.Named("allocation"), gate: gate, directory: directory, clock: clock}
}

// AssignCoach gives date to coachID. A date that is already assigned is a
// conflict; the existing allocation is never overwritten.
func (l *Ledger) AssignCoach(ctx context.Context, actor policy.Actor, date string, coachID uuid.UUID) (*model.CoachAllocationModel, error) {
	if err := l.gate.Authorize(ctx, actor, policy.ActionCreate, policy.Allocation, nil); err != nil {
		return nil, err
	}
	day, err := dbtime.ParseDate(date)
	if err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}
	coach, err := l.directory.RequireRole(ctx, coachID, constants.RoleCoach)
	if err != nil {
		return nil, err
	}

	row, err := l.insert(ctx, actor, day, coach.ID)
	if err != nil {
		return nil, err
	}
	row.Coach = coach
	l.log.Info("coach assigned",
		zap.String("date", day),
		zap.String("coach_id", coach.ID.String()),
		zap.String("by", actor.ID.String()),
	)
	return row, nil
}

func (l *Ledger) insert(ctx context.Context, actor policy.Actor, day string, coachID uuid.UUID) (*model.CoachAllocationModel, error) {
	row := &model.CoachAllocationModel{
		AllocationDate:      day,
		AllocationDayOfWeek: dbtime.DayOfWeek(day),
		AllocationCoachID:   coachID,
		AllocationCreatedBy: actor.ID,
	}
	if err := l.db.WithContext(ctx).Omit("Coach").Create(row).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("a coach is already assigned to %s", day)
		}
		return nil, apperrors.Internal("failed to assign coach", err)
	}
	return row, nil
}

// GetAllocation returns the day's allocation, or nil when nobody is assigned.
func (l *Ledger) GetAllocation(ctx context.Context, date string) (*model.CoachAllocationModel, error) {
	day, err := dbtime.ParseDate(date)
	if err != nil {
		return nil, apperrors.Validation("%s", err.Error())
	}
	var row model.CoachAllocationModel
	err = l.db.WithContext(ctx).
		Preload("Coach").
		Where("allocation_date = ?", day).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Internal("failed to load allocation", err)
	}
	return &row, nil
}

// RemoveAllocation clears date. Removing an empty day succeeds; the return
// value says whether anything was deleted.
func (l *Ledger) RemoveAllocation(ctx context.Context, actor policy.Actor, date string) (bool, error) {
	if err := l.gate.Authorize(ctx, actor, policy.ActionDelete, policy.Allocation, nil); err != nil {
		return false, err
	}
	day, err := dbtime.ParseDate(date)
	if err != nil {
		return false, apperrors.Validation("%s", err.Error())
	}
	res := l.db.WithContext(ctx).Where("allocation_date = ?", day).Delete(&model.CoachAllocationModel{})
	if res.Error != nil {
		return false, apperrors.Internal("failed to remove allocation", res.Error)
	}
	if res.RowsAffected > 0 {
		l.log.Info("allocation removed", zap.String("date", day), zap.String("by", actor.ID.String()))
	}
	return res.RowsAffected > 0, nil
}

// ListAllocations returns allocations in [from, to] ordered by date. Empty
// bounds default to today and thirty days after from.
func (l *Ledger) ListAllocations(ctx context.Context, from, to string) ([]model.CoachAllocationModel, error) {
	start, end, err := l.resolveRange(from, to)
	if err != nil {
		return nil, err
	}
	var rows []model.CoachAllocationModel
	if err := l.db.WithContext(ctx).
		Preload("Coach").
		Where("allocation_date BETWEEN ? AND ?", start, end).
		Order("allocation_date ASC").
		Find(&rows).Error; err != nil {
		return nil, apperrors.Internal("failed to list allocations", err)
	}
	return rows, nil
}

func (l *Ledger) resolveRange(from, to string) (string, string, error) {
	var err error
	if strings.TrimSpace(from) == "" {
		from = l.clock.Today()
	} else if from, err = dbtime.ParseDate(from); err != nil {
		return "", "", apperrors.Validation("from: %s", err.Error())
	}
	if strings.TrimSpace(to) == "" {
		to = dbtime.AddDays(from, defaultListDays)
	} else if to, err = dbtime.ParseDate(to); err != nil {
		return "", "", apperrors.Validation("to: %s", err.Error())
	}
	if to < from {
		return "", "", apperrors.Validation("to must not be before from")
	}
	if n := dbtime.DaysBetween(from, to); n > MaxListDays {
		return "", "", apperrors.Validation("range spans %d days, at most %d allowed", n, MaxListDays)
	}
	return from, to, nil
}

// AssignCoachRecurring expands rule from startDate and assigns the coach to
// every generated date. Dates are inserted one by one; dates that already
// have a coach are reported as conflicts and do not stop the rest.
func (l *Ledger) AssignCoachRecurring(ctx context.Context, actor policy.Actor, rule, startDate string, coachID uuid.UUID) (*dto.RecurringResult, error) {
	if err := l.gate.Authorize(ctx, actor, policy.ActionCreate, policy.Allocation, nil); err != nil {
		return nil, err
	}
	dates, err := ExpandRule(rule, startDate)
	if err != nil {
		return nil, err
	}
	coach, err := l.directory.RequireRole(ctx, coachID, constants.RoleCoach)
	if err != nil {
		return nil, err
	}

	out := &dto.RecurringResult{CoachID: coach.ID, Assigned: []string{}, Conflicts: []string{}}
	for _, day := range dates {
		if _, err := l.insert(ctx, actor, day, coach.ID); err != nil {
			if errors.Is(err, apperrors.ErrConflict) {
				out.Conflicts = append(out.Conflicts, day)
				continue
			}
			return out, err
		}
		out.Assigned = append(out.Assigned, day)
	}
	l.log.Info("recurring coach assignment",
		zap.String("coach_id", coach.ID.String()),
		zap.String("rrule", rule),
		zap.Int("assigned", len(out.Assigned)),
		zap.Int("conflicts", len(out.Conflicts)),
	)
	return out, nil
}

// ExpandRule turns an RRULE anchored at startDate into distinct dates. The
// rule must be bounded by COUNT or UNTIL and use a daily or coarser
// frequency.
func ExpandRule(rule, startDate string) ([]string, error) {
	start, err := dbtime.ParseDate(startDate)
	if err != nil {
		return nil, apperrors.Validation("start_date: %s", err.Error())
	}
	dtstart, _ := time.Parse(dbtime.DateLayout, start)

	raw := strings.TrimSpace(rule)
	raw = strings.TrimPrefix(raw, "RRULE:")
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return nil, apperrors.Validation("rrule: %s", err.Error())
	}
	switch opt.Freq {
	case rrule.YEARLY, rrule.MONTHLY, rrule.WEEKLY, rrule.DAILY:
	default:
		return nil, apperrors.Validation("rrule: frequency must be DAILY, WEEKLY, MONTHLY or YEARLY")
	}
	if opt.Count == 0 && opt.Until.IsZero() {
		return nil, apperrors.Validation("rrule: COUNT or UNTIL is required")
	}
	if opt.Count > MaxRecurringDates {
		return nil, apperrors.Validation("rrule: COUNT must be at most %d", MaxRecurringDates)
	}
	if !opt.Until.IsZero() && opt.Until.After(dtstart.AddDate(0, 0, MaxRecurringDates)) {
		return nil, apperrors.Validation("rrule: UNTIL must be within %d days of start_date", MaxRecurringDates)
	}
	opt.Dtstart = dtstart

	r, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, apperrors.Validation("rrule: %s", err.Error())
	}

	seen := make(map[string]struct{})
	dates := make([]string, 0)
	for _, t := range r.All() {
		d := t.Format(dbtime.DateLayout)
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		dates = append(dates, d)
	}
	if len(dates) == 0 {
		return nil, apperrors.Validation("rrule produces no dates")
	}
	if len(dates) > MaxRecurringDates {
		return nil, apperrors.Validation("rrule produces %d dates, at most %d allowed", len(dates), MaxRecurringDates)
	}
	return dates, nil
}

// OnDuty returns the coach assigned to date, or nil when the day is
// unassigned or the coach account no longer exists.
func (l *Ledger) OnDuty(ctx context.Context, date string) (*userModel.UserModel, error) {
	row, err := l.GetAllocation(ctx, date)
	if err != nil || row == nil {
		return nil, err
	}
	return row.Coach, nil
}
