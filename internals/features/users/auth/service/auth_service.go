package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/constants"
	authHelper "poolbooking_backend/internals/features/users/auth/helper"
	authRepo "poolbooking_backend/internals/features/users/auth/repository"
	userDTO "poolbooking_backend/internals/features/users/user/dto"
	userModel "poolbooking_backend/internals/features/users/user/model"
	userService "poolbooking_backend/internals/features/users/user/service"
)

// Claims is the access token payload.
type Claims struct {
	UserID   string `json:"id"`
	Role     string `json:"role"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

// AuthService is the AuthProvider: credential checks and token issuance.
type AuthService struct {
	db        *gorm.DB
	log       *zap.Logger
	directory *userService.Directory
	secret    []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewAuthService(db *gorm.DB, log *zap.Logger, directory *userService.Directory, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		db:        db,
		log:       log.Named("auth"),
		directory: directory,
		secret:    []byte(secret),
		ttl:       ttl,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type RegisterInput struct {
	UserName      string  `json:"user_name"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Password      string  `json:"password"`
	Department    *string `json:"department,omitempty"`
	StudentNumber *string `json:"student_number,omitempty"`
}

// Register creates a student account. Other roles are created by admins.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*userModel.UserModel, error) {
	return s.directory.CreateAccount(ctx, userDTO.CreateUserRequest{
		UserName:      in.UserName,
		FullName:      in.FullName,
		Email:         in.Email,
		Password:      in.Password,
		Role:          constants.RoleStudent,
		Department:    in.Department,
		StudentNumber: in.StudentNumber,
	})
}

type LoginResult struct {
	AccessToken string               `json:"access_token"`
	ExpiresAt   time.Time            `json:"expires_at"`
	User        *userModel.UserModel `json:"user"`
}

// Login checks credentials and issues an access token. Unknown email and
// wrong password give the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	user, err := s.directory.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthenticated("email or password is incorrect")
		}
		return nil, err
	}
	if err := authHelper.CheckPasswordHash(user.Password, password); err != nil {
		return nil, apperrors.Unauthenticated("email or password is incorrect")
	}
	if !user.IsActive {
		return nil, apperrors.Forbidden("this account has been deactivated")
	}

	token, exp, err := s.IssueToken(user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}
	s.log.Info("login", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	return &LoginResult{AccessToken: token, ExpiresAt: exp, User: user}, nil
}

func (s *AuthService) IssueToken(user *userModel.UserModel) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		UserID:   user.ID.String(),
		Role:     user.Role,
		UserName: user.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return signed, exp, err
}

// ParseToken verifies signature, algorithm and expiry.
func (s *AuthService) ParseToken(raw string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.Unauthenticated("invalid or expired token")
	}
	if _, err := uuid.Parse(claims.UserID); err != nil {
		return nil, apperrors.Unauthenticated("invalid or missing user id")
	}
	return claims, nil
}

// Authenticate is what the middleware runs per request: parse, blacklist
// check, and active-account check.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return nil, err
	}
	blacklisted, err := authRepo.IsTokenBlacklisted(ctx, s.db, raw)
	if err != nil {
		return nil, apperrors.Internal("failed to check token", err)
	}
	if blacklisted {
		return nil, apperrors.Unauthenticated("token has been revoked")
	}

	userID, _ := uuid.Parse(claims.UserID)
	active, err := authRepo.IsUserActive(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Unauthenticated("user not found")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	if !active {
		return nil, apperrors.Forbidden("this account has been deactivated")
	}
	return claims, nil
}

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	claims, err := s.ParseToken(raw)
	if err != nil {
		return err
	}
	exp := s.now().Add(s.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	if err := authRepo.BlacklistToken(ctx, s.db, raw, exp); err != nil {
		return apperrors.Internal("failed to revoke token", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*userModel.UserModel, error) {
	return s.directory.ResolveAccount(ctx, userID)
}
