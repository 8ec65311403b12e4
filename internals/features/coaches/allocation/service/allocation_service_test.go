package service

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/constants"
	userModel "poolbooking_backend/internals/features/users/user/model"
	userService "poolbooking_backend/internals/features/users/user/service"
	"poolbooking_backend/internals/helpers/dbtime"
	"poolbooking_backend/internals/policy"
	"poolbooking_backend/internals/testutil"
)

type fixture struct {
	db     *gorm.DB
	ledger *Ledger
	admin  policy.Actor
	coach  *userModel.UserModel
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t)
	gate := policy.Default()
	dir := userService.NewDirectory(db, zap.NewNop(), gate)
	clock := dbtime.FixedClock(time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC))

	admin := testutil.NewUser(t, db, constants.RoleAdmin)
	return fixture{
		db:     db,
		ledger: NewLedger(db, zap.NewNop(), gate, dir, clock),
		admin:  policy.Actor{ID: admin.ID, Role: admin.Role},
		coach:  testutil.NewUser(t, db, constants.RoleCoach),
	}
}

func TestAssignCoach_StoresDayOfWeek(t *testing.T) {
	f := newFixture(t)

	row, err := f.ledger.AssignCoach(context.Background(), f.admin, "2025-03-12", f.coach.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12", row.AllocationDate)
	assert.Equal(t, "Wednesday", row.AllocationDayOfWeek)
	assert.Equal(t, f.admin.ID, row.AllocationCreatedBy)

	got, err := f.ledger.GetAllocation(context.Background(), "2025-03-12")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.Coach)
	assert.Equal(t, f.coach.ID, got.Coach.ID)
}

func TestAssignCoach_DuplicateDateIsConflictAndKeepsFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.NewUser(t, f.db, constants.RoleCoach)

	_, err := f.ledger.AssignCoach(ctx, f.admin, "2025-03-12", f.coach.ID)
	require.NoError(t, err)

	_, err = f.ledger.AssignCoach(ctx, f.admin, "2025-03-12", other.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	got, err := f.ledger.GetAllocation(ctx, "2025-03-12")
	require.NoError(t, err)
	assert.Equal(t, f.coach.ID, got.AllocationCoachID)
}

func TestAssignCoach_RejectsNonCoach(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.NewUser(t, f.db, constants.RoleStudent)

	_, err := f.ledger.AssignCoach(ctx, f.admin, "2025-03-12", student.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.ledger.AssignCoach(ctx, f.admin, "2025-03-12", uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	require.NoError(t, f.db.Model(f.coach).Update("is_active", false).Error)
	_, err = f.ledger.AssignCoach(ctx, f.admin, "2025-03-12", f.coach.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAssignCoach_MalformedDate(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.AssignCoach(context.Background(), f.admin, "12/03/2025", f.coach.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAssignCoach_OnlyAdmin(t *testing.T) {
	f := newFixture(t)
	coachActor := policy.Actor{ID: f.coach.ID, Role: constants.RoleCoach}

	_, err := f.ledger.AssignCoach(context.Background(), coachActor, "2025-03-12", f.coach.ID)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestAssignCoach_SameDateIndexAdmitsOneWinner(t *testing.T) {
	f := newFixture(t)
	const n = 8

	coaches := make([]*userModel.UserModel, n)
	for i := range coaches {
		coaches[i] = testutil.NewUser(t, f.db, constants.RoleCoach)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ledger.AssignCoach(context.Background(), f.admin, "2025-04-01", coaches[i].ID)
		}(i)
	}
	wg.Wait()

	ok, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, apperrors.ErrConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, conflicts)

	var count int64
	require.NoError(t, f.db.Table("coach_allocations").Where("allocation_date = ?", "2025-04-01").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetAllocation_UnassignedIsNil(t *testing.T) {
	f := newFixture(t)
	row, err := f.ledger.GetAllocation(context.Background(), "2025-03-20")
	require.NoError(t, err)
	assert.Nil(t, row)

	coach, err := f.ledger.OnDuty(context.Background(), "2025-03-20")
	require.NoError(t, err)
	assert.Nil(t, coach)
}

func TestRemoveAllocation_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.AssignCoach(ctx, f.admin, "2025-03-12", f.coach.ID)
	require.NoError(t, err)

	removed, err := f.ledger.RemoveAllocation(ctx, f.admin, "2025-03-12")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.ledger.RemoveAllocation(ctx, f.admin, "2025-03-12")
	require.NoError(t, err)
	assert.False(t, removed)

	row, err := f.ledger.GetAllocation(ctx, "2025-03-12")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestListAllocations_RangeAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, d := range []string{"2025-03-15", "2025-03-11", "2025-05-01"} {
		_, err := f.ledger.AssignCoach(ctx, f.admin, d, f.coach.ID)
		require.NoError(t, err)
	}

	rows, err := f.ledger.ListAllocations(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-11", rows[0].AllocationDate)
	assert.Equal(t, "2025-03-15", rows[1].AllocationDate)

	// defaults: today (2025-03-10) plus thirty days
	rows, err = f.ledger.ListAllocations(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	_, err = f.ledger.ListAllocations(ctx, "2025-03-31", "2025-03-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.ledger.ListAllocations(ctx, "2025-01-01", "2026-06-01")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestListAllocations_HugeRangeRejectedBeforeListing(t *testing.T) {
	f := newFixture(t)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := f.ledger.ListAllocations(context.Background(), "0001-01-01", "9999-12-31")
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.ErrorContains(t, err, "3652059 days")
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestAssignCoachRecurring_ReportsConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	other := testutil.NewUser(t, f.db, constants.RoleCoach)

	// 2025-03-17 is a Monday
	_, err := f.ledger.AssignCoach(ctx, f.admin, "2025-03-24", other.ID)
	require.NoError(t, err)

	res, err := f.ledger.AssignCoachRecurring(ctx, f.admin, "FREQ=WEEKLY;BYDAY=MO;COUNT=3", "2025-03-17", f.coach.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-17", "2025-03-31"}, res.Assigned)
	assert.Equal(t, []string{"2025-03-24"}, res.Conflicts)

	got, err := f.ledger.GetAllocation(ctx, "2025-03-24")
	require.NoError(t, err)
	assert.Equal(t, other.ID, got.AllocationCoachID)
}

func TestAssignCoachRecurring_ValidationAbortsBeforeInsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := testutil.NewUser(t, f.db, constants.RoleStudent)

	_, err := f.ledger.AssignCoachRecurring(ctx, f.admin, "FREQ=DAILY;COUNT=5", "2025-03-17", student.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	var count int64
	require.NoError(t, f.db.Table("coach_allocations").Count(&count).Error)
	assert.Zero(t, count)
}

func TestExpandRule(t *testing.T) {
	dates, err := ExpandRule("RRULE:FREQ=DAILY;UNTIL=20250320T000000Z", "2025-03-17")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-17", "2025-03-18", "2025-03-19", "2025-03-20"}, dates)

	cases := map[string]string{
		"unbounded": "FREQ=WEEKLY;BYDAY=MO",
		"hourly":    "FREQ=HOURLY;COUNT=3",
		"too many":  "FREQ=DAILY;COUNT=400",
		"far until": "FREQ=DAILY;UNTIL=20270101T000000Z",
		"gibberish": "NOT A RULE",
	}
	for name, rule := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ExpandRule(rule, "2025-03-17")
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	_, err = ExpandRule("FREQ=DAILY;COUNT=3", "not-a-date")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
