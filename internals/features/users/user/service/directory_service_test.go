package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/constants"
	"poolbooking_backend/internals/features/users/user/dto"
	helper "poolbooking_backend/internals/helpers"
	"poolbooking_backend/internals/policy"
	"poolbooking_backend/internals/testutil"
)

func strPtr(s string) *string { return &s }

func newDirectory(t *testing.T) *Directory {
	return NewDirectory(testutil.NewDB(t), zap.NewNop(), policy.Default())
}

func createReq(email, role string) dto.CreateUserRequest {
	return dto.CreateUserRequest{
		UserName: "user" + role,
		FullName: "Test " + role,
		Email:    email,
		Password: "password123",
		Role:     role,
	}
}

func TestCreateAccount(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	u, err := d.CreateAccount(ctx, createReq("  Coach@Uni.Test ", constants.RoleCoach))
	require.NoError(t, err)
	assert.Equal(t, "coach@uni.test", u.Email)
	assert.NotEqual(t, "password123", u.Password)
	assert.True(t, u.IsActive)

	_, err = d.CreateAccount(ctx, createReq("coach@uni.test", constants.RoleStudent))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	bad := createReq("x@uni.test", "lifeguard")
	_, err = d.CreateAccount(ctx, bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	student := createReq("s@uni.test", constants.RoleStudent)
	student.Specialization = strPtr("Backstroke")
	_, err = d.CreateAccount(ctx, student)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestResolveAccountAndAccountsByRole(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	c1, err := d.CreateAccount(ctx, createReq("c1@uni.test", constants.RoleCoach))
	require.NoError(t, err)
	_, err = d.CreateAccount(ctx, createReq("s1@uni.test", constants.RoleStudent))
	require.NoError(t, err)

	got, err := d.ResolveAccount(ctx, c1.ID)
	require.NoError(t, err)
	assert.Equal(t, c1.Email, got.Email)

	_, err = d.ResolveAccount(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	coaches, err := d.AccountsByRole(ctx, constants.RoleCoach)
	require.NoError(t, err)
	require.Len(t, coaches, 1)
	assert.Equal(t, c1.ID, coaches[0].ID)

	_, err = d.AccountsByRole(ctx, "swimmer")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestList_AdminOnlyWithRoleFilter(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	admin, err := d.CreateAccount(ctx, createReq("a@uni.test", constants.RoleAdmin))
	require.NoError(t, err)
	for _, e := range []string{"s1@uni.test", "s2@uni.test", "s3@uni.test"} {
		_, err := d.CreateAccount(ctx, createReq(e, constants.RoleStudent))
		require.NoError(t, err)
	}
	adminActor := policy.Actor{ID: admin.ID, Role: admin.Role}

	rows, total, err := d.List(ctx, adminActor, constants.RoleStudent, helper.Params{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, rows, 2)

	_, _, err = d.List(ctx, policy.Actor{ID: uuid.New(), Role: constants.RoleStaff}, "", helper.Params{Page: 1, PerPage: 10})
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestGet_SelfOrAdmin(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	s, err := d.CreateAccount(ctx, createReq("s@uni.test", constants.RoleStudent))
	require.NoError(t, err)
	self := policy.Actor{ID: s.ID, Role: s.Role}

	_, err = d.Get(ctx, self, s.ID)
	require.NoError(t, err)

	_, err = d.Get(ctx, policy.Actor{ID: uuid.New(), Role: constants.RoleStudent}, s.ID)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestDeleteAccount(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	admin, err := d.CreateAccount(ctx, createReq("a@uni.test", constants.RoleAdmin))
	require.NoError(t, err)
	s, err := d.CreateAccount(ctx, createReq("s@uni.test", constants.RoleStudent))
	require.NoError(t, err)
	adminActor := policy.Actor{ID: admin.ID, Role: admin.Role}

	assert.ErrorIs(t, d.DeleteAccount(ctx, adminActor, admin.ID), apperrors.ErrValidation)
	assert.ErrorIs(t, d.DeleteAccount(ctx, policy.Actor{ID: s.ID, Role: s.Role}, s.ID), apperrors.ErrAuthorization)

	require.NoError(t, d.DeleteAccount(ctx, adminActor, s.ID))
	_, err = d.ResolveAccount(ctx, s.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.ErrorIs(t, d.DeleteAccount(ctx, adminActor, s.ID), apperrors.ErrNotFound)
}

func TestUpdateCoachProfile(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	c, err := d.CreateAccount(ctx, createReq("c@uni.test", constants.RoleCoach))
	require.NoError(t, err)
	coach := policy.Actor{ID: c.ID, Role: c.Role}

	got, err := d.UpdateCoachProfile(ctx, coach, dto.UpdateCoachProfileRequest{
		Specialization: strPtr(" Water polo "),
		Department:     strPtr("Sports Science"),
	})
	require.NoError(t, err)
	require.NotNil(t, got.Specialization)
	assert.Equal(t, "Water polo", *got.Specialization)
	assert.Equal(t, c.FullName, got.FullName)

	s, err := d.CreateAccount(ctx, createReq("s@uni.test", constants.RoleStudent))
	require.NoError(t, err)
	_, err = d.UpdateCoachProfile(ctx, policy.Actor{ID: s.ID, Role: s.Role}, dto.UpdateCoachProfileRequest{Department: strPtr("X")})
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestDeactivateAndReactivate(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	admin, err := d.CreateAccount(ctx, createReq("a@uni.test", constants.RoleAdmin))
	require.NoError(t, err)
	s, err := d.CreateAccount(ctx, createReq("s@uni.test", constants.RoleStudent))
	require.NoError(t, err)
	adminActor := policy.Actor{ID: admin.ID, Role: admin.Role}

	got, err := d.Deactivate(ctx, adminActor, s.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// inactive accounts drop out of role lookups and cannot be assigned duties
	students, err := d.AccountsByRole(ctx, constants.RoleStudent)
	require.NoError(t, err)
	assert.Empty(t, students)
	_, err = d.RequireRole(ctx, s.ID, constants.RoleStudent)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	got, err = d.Reactivate(ctx, adminActor, s.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	_, err = d.Deactivate(ctx, policy.Actor{ID: s.ID, Role: s.Role}, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	_, err = d.Deactivate(ctx, adminActor, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = d.Deactivate(ctx, adminActor, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
