package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/constants"
	userService "poolbooking_backend/internals/features/users/user/service"
	"poolbooking_backend/internals/policy"
	"poolbooking_backend/internals/testutil"
)

const testSecret = "test-secret-0123456789"

func newAuth(t *testing.T) (*AuthService, *gorm.DB) {
	db := testutil.NewDB(t)
	dir := userService.NewDirectory(db, zap.NewNop(), policy.Default())
	return NewAuthService(db, zap.NewNop(), dir, testSecret, time.Hour), db
}

func register(t *testing.T, s *AuthService, email string) {
	t.Helper()
	_, err := s.Register(context.Background(), RegisterInput{
		UserName: "swimmer",
		FullName: "Sam Swimmer",
		Email:    email,
		Password: "password123",
	})
	require.NoError(t, err)
}

func TestRegister_CreatesStudent(t *testing.T) {
	s, _ := newAuth(t)
	u, err := s.Register(context.Background(), RegisterInput{
		UserName: "swimmer",
		FullName: "Sam Swimmer",
		Email:    "sam@uni.test",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleStudent, u.Role)

	_, err = s.Register(context.Background(), RegisterInput{
		UserName: "swimmer2",
		FullName: "Sam Again",
		Email:    "SAM@uni.test",
		Password: "password123",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = s.Register(context.Background(), RegisterInput{
		UserName: "shorty",
		FullName: "Short Password",
		Email:    "short@uni.test",
		Password: "123",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestLogin_IssuesVerifiableToken(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	register(t, s, "sam@uni.test")

	res, err := s.Login(ctx, "Sam@Uni.test", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)

	claims, err := s.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.UserID)
	assert.Equal(t, constants.RoleStudent, claims.Role)
	assert.Equal(t, "swimmer", claims.UserName)
}

func TestLogin_Failures(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	register(t, s, "sam@uni.test")

	_, err := s.Login(ctx, "sam@uni.test", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = s.Login(ctx, "nobody@uni.test", "password123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = s.Login(ctx, "", "")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

}

func TestDeactivatedAccount_LoginAndTokenRejected(t *testing.T) {
	s, db := newAuth(t)
	ctx := context.Background()
	register(t, s, "sam@uni.test")
	res, err := s.Login(ctx, "sam@uni.test", "password123")
	require.NoError(t, err)

	admin := testutil.NewUser(t, db, constants.RoleAdmin)
	adminActor := policy.Actor{ID: admin.ID, Role: admin.Role}
	_, err = s.directory.Deactivate(ctx, adminActor, res.User.ID)
	require.NoError(t, err)

	_, err = s.Login(ctx, "sam@uni.test", "password123")
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)
	_, err = s.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrAuthorization)

	_, err = s.directory.Reactivate(ctx, adminActor, res.User.ID)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, res.AccessToken)
	assert.NoError(t, err)
}

func TestAuthenticate_RejectsForeignAndExpiredTokens(t *testing.T) {
	s, db := newAuth(t)
	ctx := context.Background()
	register(t, s, "sam@uni.test")
	res, err := s.Login(ctx, "sam@uni.test", "password123")
	require.NoError(t, err)

	other := NewAuthService(db, zap.NewNop(), s.directory, "another-secret-0123456789", time.Hour)
	_, err = other.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, _, err := s.IssueToken(res.User)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, expired)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)

	_, err = s.Authenticate(ctx, "not.a.jwt")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestLogout_BlacklistsToken(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	register(t, s, "sam@uni.test")
	res, err := s.Login(ctx, "sam@uni.test", "password123")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, res.AccessToken))
	// second logout is harmless
	require.NoError(t, s.Logout(ctx, res.AccessToken))

	_, err = s.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
}

func TestChangePassword(t *testing.T) {
	s, _ := newAuth(t)
	ctx := context.Background()
	register(t, s, "sam@uni.test")
	res, err := s.Login(ctx, "sam@uni.test", "password123")
	require.NoError(t, err)
	id := res.User.ID

	assert.ErrorIs(t, s.ChangePassword(ctx, id, "wrong", "newpassword1"), apperrors.ErrUnauthenticated)
	assert.ErrorIs(t, s.ChangePassword(ctx, id, "password123", "short"), apperrors.ErrValidation)

	require.NoError(t, s.ChangePassword(ctx, id, "password123", "newpassword1"))
	_, err = s.Login(ctx, "sam@uni.test", "password123")
	assert.ErrorIs(t, err, apperrors.ErrUnauthenticated)
	_, err = s.Login(ctx, "sam@uni.test", "newpassword1")
	assert.NoError(t, err)
}
