package users

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"poolbooking_backend/internals/apperrors"
	"poolbooking_backend/internals/features/users/user/dto"
	userService "poolbooking_backend/internals/features/users/user/service"
)

// AccountFile is the seed file layout.
type AccountFile struct {
	Accounts []dto.CreateUserRequest `yaml:"accounts"`
}

type Result struct {
	Created int
	Skipped int
}

// ParseAccounts decodes a seed file. Unknown keys are rejected so typos in
// field names do not silently drop data.
func ParseAccounts(raw []byte) ([]dto.CreateUserRequest, error) {
	var f AccountFile
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode accounts: %w", err)
	}
	return f.Accounts, nil
}

// SeedAccountsFromYAML creates every account in path that does not exist
// yet. Running it twice creates nothing the second time.
func SeedAccountsFromYAML(ctx context.Context, dir *userService.Directory, log *zap.Logger, path string) (Result, error) {
	log.Info("📥 reading accounts", zap.String("file", path))

	raw, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", path, err)
	}
	accounts, err := ParseAccounts(raw)
	if err != nil {
		return Result{}, err
	}
	return SeedAccounts(ctx, dir, log, accounts)
}

func SeedAccounts(ctx context.Context, dir *userService.Directory, log *zap.Logger, accounts []dto.CreateUserRequest) (Result, error) {
	var res Result
	for i, acc := range accounts {
		acc.Normalize()
		if _, err := dir.FindByEmail(ctx, acc.Email); err == nil {
			log.Info("ℹ️ account exists, skipped", zap.String("email", acc.Email))
			res.Skipped++
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return res, err
		}

		u, err := dir.CreateAccount(ctx, acc)
		switch {
		case errors.Is(err, apperrors.ErrConflict):
			log.Warn("account conflicts with an existing one, skipped", zap.String("email", acc.Email))
			res.Skipped++
			continue
		case err != nil:
			return res, fmt.Errorf("account #%d (%s): %w", i+1, acc.Email, err)
		}
		log.Info("✅ account created", zap.String("email", u.Email), zap.String("role", u.Role))
		res.Created++
	}
	return res, nil
}
