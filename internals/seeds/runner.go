package seeds

import (
	"context"

	"go.uber.org/zap"

	userService "poolbooking_backend/internals/features/users/user/service"
	"poolbooking_backend/internals/seeds/users"
)

// DefaultAccountsFile is read when no --file flag is given.
const DefaultAccountsFile = "internals/seeds/users/data_accounts.yaml"

func RunAllSeeds(ctx context.Context, dir *userService.Directory, log *zap.Logger, accountsFile string) error {
	if accountsFile == "" {
		accountsFile = DefaultAccountsFile
	}

	//* Accounts
	res, err := users.SeedAccountsFromYAML(ctx, dir, log, accountsFile)
	if err != nil {
		return err
	}
	log.Info("🌱 accounts seeded", zap.Int("created", res.Created), zap.Int("skipped", res.Skipped))
	return nil
}
