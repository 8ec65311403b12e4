package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/configs"
	"poolbooking_backend/internals/constants"
	"poolbooking_backend/internals/features/bookings/booking/model"
	allocationService "poolbooking_backend/internals/features/coaches/allocation/service"
	userService "poolbooking_backend/internals/features/users/user/service"
	"poolbooking_backend/internals/helpers/dbtime"
	"poolbooking_backend/internals/policy"
	"poolbooking_backend/internals/testutil"
)

// Monday 2025-03-10, 08:30 at the pool
var poolNow = time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

const today = "2025-03-10"

type fixture struct {
	db          *gorm.DB
	ledger      *Ledger
	allocations *allocationService.Ledger
	admin       policy.Actor
	staff       policy.Actor
	coach       policy.Actor
	studentA    policy.Actor
	studentB    policy.Actor
}

func actorFor(t *testing.T, db *gorm.DB, role string) policy.Actor {
	u := testutil.NewUser(t, db, role)
	return policy.Actor{ID: u.ID, Role: u.Role}
}

func newFixture(t *testing.T) fixture {
	db := testutil.NewDB(t)
	gate := policy.Default()
	clock := dbtime.FixedClock(poolNow)
	dir := userService.NewDirectory(db, zap.NewNop(), gate)
	alloc := allocationService.NewLedger(db, zap.NewNop(), gate, dir, clock)

	return fixture{
		db:          db,
		ledger:      NewLedger(db, zap.NewNop(), gate, alloc, clock, configs.DefaultSlots),
		allocations: alloc,
		admin:       actorFor(t, db, constants.RoleAdmin),
		staff:       actorFor(t, db, constants.RoleStaff),
		coach:       actorFor(t, db, constants.RoleCoach),
		studentA:    actorFor(t, db, constants.RoleStudent),
		studentB:    actorFor(t, db, constants.RoleStudent),
	}
}

func (f fixture) book(t *testing.T, who policy.Actor, date, slot string) *model.BookingModel {
	t.Helper()
	b, _, err := f.ledger.CreateBooking(context.Background(), who, date, slot)
	require.NoError(t, err)
	return b
}

// seedPast inserts a booking directly, bypassing the past-date check.
func (f fixture) seedPast(t *testing.T, who policy.Actor, date string, status model.BookingStatus) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.BookingModel{
		BookingUserID:      who.ID,
		BookingSessionDate: date,
		BookingSlot:        "10:00",
		BookingStatus:      status,
	}).Error)
}

/* ---------- create ---------- */

func TestCreateBooking_Active(t *testing.T) {
	f := newFixture(t)

	b, coach, err := f.ledger.CreateBooking(context.Background(), f.studentA, "2025-03-12", "9:00")
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusActive, b.BookingStatus)
	assert.Equal(t, "2025-03-12", b.BookingSessionDate)
	assert.Equal(t, "09:00", b.BookingSlot)
	assert.Equal(t, f.studentA.ID, b.BookingUserID)
	assert.Len(t, b.BookingVerificationCode, 32)
	assert.Nil(t, coach)
}

func TestCreateBooking_AnnotatesOnDutyCoach(t *testing.T) {
	f := newFixture(t)
	_, err := f.allocations.AssignCoach(context.Background(), f.admin, "2025-03-12", f.coach.ID)
	require.NoError(t, err)

	_, coach, err := f.ledger.CreateBooking(context.Background(), f.studentA, "2025-03-12", "10:00")
	require.NoError(t, err)
	require.NotNil(t, coach)
	assert.Equal(t, f.coach.ID, coach.ID)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name, date, slot string
	}{
		{"missing date", "", "10:00"},
		{"missing slot", "2025-03-12", ""},
		{"malformed date", "12-03-2025", "10:00"},
		{"malformed slot", "2025-03-12", "ten"},
		{"slot not offered", "2025-03-12", "10:30"},
		{"past date", "2025-03-09", "10:00"},
		{"slot already started today", today, "08:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.ledger.CreateBooking(context.Background(), f.studentA, tc.date, tc.slot)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	// later today is still bookable
	f.book(t, f.studentA, today, "09:00")
}

func TestCreateBooking_OneActivePerDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.book(t, f.studentA, "2025-03-12", "10:00")

	_, _, err := f.ledger.CreateBooking(ctx, f.studentA, "2025-03-12", "15:00")
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// another user or another day is fine
	f.book(t, f.studentB, "2025-03-12", "10:00")
	f.book(t, f.studentA, "2025-03-13", "10:00")

	// a cancelled booking frees the day
	_, err = f.ledger.CancelBooking(ctx, f.studentA, first.BookingID)
	require.NoError(t, err)
	f.book(t, f.studentA, "2025-03-12", "15:00")
}

func TestCreateBooking_SameDayIndexAdmitsOneWinner(t *testing.T) {
	f := newFixture(t)
	const n = 10

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = f.ledger.CreateBooking(context.Background(), f.studentA, "2025-03-14", "11:00")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	}
	assert.Equal(t, 1, ok)
}

/* ---------- list ---------- */

func TestListBookings_MostRecentFirstAndOwnOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	b1 := f.book(t, f.studentA, "2025-03-11", "10:00")
	b2 := f.book(t, f.studentA, "2025-03-15", "08:00")
	f.book(t, f.studentB, "2025-03-20", "10:00")

	rows, err := f.ledger.ListBookings(ctx, f.studentA)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, b2.BookingID, rows[0].BookingID)
	assert.Equal(t, b1.BookingID, rows[1].BookingID)

	rows, err = f.ledger.ListBookings(ctx, actorFor(t, f.db, constants.RoleStudent))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

/* ---------- get ---------- */

func TestGetBooking_OwnerOrElevated(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.studentA, "2025-03-12", "10:00")

	_, err := f.ledger.GetBooking(ctx, f.studentA, b.BookingID)
	require.NoError(t, err)
	_, err = f.ledger.GetBooking(ctx, f.staff, b.BookingID)
	require.NoError(t, err)

	_, err = f.ledger.GetBooking(ctx, f.studentB, b.BookingID)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)

	_, err = f.ledger.GetBooking(ctx, f.studentA, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

/* ---------- cancel ---------- */

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("owner", func(t *testing.T) {
		b := f.book(t, f.studentA, "2025-03-12", "10:00")
		got, err := f.ledger.CancelBooking(ctx, f.studentA, b.BookingID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusCancelled, got.BookingStatus)
		require.NotNil(t, got.BookingCancelledBy)
		assert.Equal(t, f.studentA.ID, *got.BookingCancelledBy)
		assert.NotNil(t, got.BookingCancelledAt)

		_, err = f.ledger.CancelBooking(ctx, f.studentA, b.BookingID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("not owner", func(t *testing.T) {
		b := f.book(t, f.studentA, "2025-03-13", "10:00")
		_, err := f.ledger.CancelBooking(ctx, f.studentB, b.BookingID)
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)

		_, err = f.ledger.CancelBooking(ctx, f.coach, b.BookingID)
		assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	})

	t.Run("elevated", func(t *testing.T) {
		b := f.book(t, f.studentB, "2025-03-13", "10:00")
		got, err := f.ledger.CancelBooking(ctx, f.staff, b.BookingID)
		require.NoError(t, err)
		assert.Equal(t, model.BookingStatusCancelled, got.BookingStatus)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := f.ledger.CancelBooking(ctx, f.admin, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("verified", func(t *testing.T) {
		b := f.book(t, f.studentA, today, "12:00")
		_, err := f.ledger.VerifyBooking(ctx, f.staff, b.BookingVerificationCode)
		require.NoError(t, err)

		_, err = f.ledger.CancelBooking(ctx, f.studentA, b.BookingID)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}

/* ---------- verify ---------- */

func TestVerifyBooking_ByCodeOrID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.book(t, f.studentA, today, "10:00")
	got, err := f.ledger.VerifyBooking(ctx, f.staff, a.BookingVerificationCode)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusVerified, got.BookingStatus)
	require.NotNil(t, got.BookingVerifiedBy)
	assert.Equal(t, f.staff.ID, *got.BookingVerifiedBy)
	require.NotNil(t, got.User)
	assert.Equal(t, f.studentA.ID, got.User.ID)

	b := f.book(t, f.studentB, today, "11:00")
	got, err = f.ledger.VerifyBooking(ctx, f.coach, b.BookingID.String())
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusVerified, got.BookingStatus)
}

func TestVerifyBooking_TwiceIsInvalidState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.studentA, today, "10:00")

	_, err := f.ledger.VerifyBooking(ctx, f.staff, b.BookingVerificationCode)
	require.NoError(t, err)
	_, err = f.ledger.VerifyBooking(ctx, f.staff, b.BookingVerificationCode)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestVerifyBooking_RepeatedScansGuardAdmitsOneWinner(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, f.studentA, today, "10:00")
	const n = 10

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.ledger.VerifyBooking(context.Background(), f.staff, b.BookingVerificationCode)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	}
	assert.Equal(t, 1, ok)
}

func TestVerifyBooking_CancelledIsInvalidState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.studentA, today, "10:00")

	_, err := f.ledger.CancelBooking(ctx, f.studentA, b.BookingID)
	require.NoError(t, err)

	_, err = f.ledger.VerifyBooking(ctx, f.staff, b.BookingID.String())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	_, err = f.ledger.VerifyBooking(ctx, f.staff, b.BookingVerificationCode)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestVerifyBooking_OnlyToday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	b := f.book(t, f.studentA, "2025-03-11", "10:00")

	_, err := f.ledger.VerifyBooking(ctx, f.staff, b.BookingVerificationCode)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.ledger.VerifyBooking(ctx, f.staff, "no-such-code")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.ledger.VerifyBooking(ctx, f.staff, "  ")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestVerifyBooking_StudentForbidden(t *testing.T) {
	f := newFixture(t)
	b := f.book(t, f.studentA, today, "10:00")

	_, err := f.ledger.VerifyBooking(context.Background(), f.studentA, b.BookingVerificationCode)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

/* ---------- day view ---------- */

func TestListBookingsByDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.book(t, f.studentA, today, "15:00")
	f.book(t, f.studentB, today, "10:00")
	f.book(t, f.studentB, "2025-03-11", "10:00")

	rows, err := f.ledger.ListBookingsByDate(ctx, f.staff, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "10:00", rows[0].BookingSlot)
	assert.Equal(t, "15:00", rows[1].BookingSlot)
	require.NotNil(t, rows[0].User)
	assert.Equal(t, f.studentB.ID, rows[0].User.ID)

	_, err = f.ledger.ListBookingsByDate(ctx, f.studentA, today)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}
