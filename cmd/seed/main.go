package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"poolbooking_backend/internals/configs"
	database "poolbooking_backend/internals/databases"
	scheduler "poolbooking_backend/internals/features/users/auth/scheduler"
	userService "poolbooking_backend/internals/features/users/user/service"
	"poolbooking_backend/internals/policy"
	"poolbooking_backend/internals/seeds"
	"poolbooking_backend/internals/seeds/users"
)

// App holds what every subcommand needs.
type App struct {
	cfg    *configs.Config
	db     *gorm.DB
	logger *zap.Logger
	ctx    context.Context
}

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Pool booking maintenance CLI",
		Long:  `Runs migrations, seeds accounts from YAML and purges expired tokens against the configured database.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Context())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				database.Close(app.db)
				_ = app.logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(accountsCmd())
	rootCmd.AddCommand(allCmd())
	rootCmd.AddCommand(cleanupTokensCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func initApp(ctx context.Context) error {
	logger, err := configs.NewLogger(configs.GetEnv("APP_ENV", "development"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	configs.LoadEnv(logger)

	cfg, err := configs.Load()
	if err != nil {
		return err
	}
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return err
	}
	app = &App{cfg: cfg, db: db, logger: logger, ctx: ctx}
	return nil
}

func directory() *userService.Directory {
	return userService.NewDirectory(app.db, app.logger, policy.Default())
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(app.db); err != nil {
				return err
			}
			app.logger.Info("✅ schema up to date")
			return nil
		},
	}
}

func accountsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Create accounts listed in a YAML file, skipping existing emails",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := users.SeedAccountsFromYAML(app.ctx, directory(), app.logger, file)
			if err != nil {
				return err
			}
			fmt.Printf("created %d, skipped %d\n", res.Created, res.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", seeds.DefaultAccountsFile, "accounts YAML file")
	return cmd
}

func allCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Migrate, then run every seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.Migrate(app.db); err != nil {
				return err
			}
			return seeds.RunAllSeeds(app.ctx, directory(), app.logger, file)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", seeds.DefaultAccountsFile, "accounts YAML file")
	return cmd
}

func cleanupTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-tokens",
		Short: "Delete blacklisted tokens past the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := scheduler.RunBlacklistCleanup(app.ctx, app.db, app.logger, app.cfg.BlacklistTTLDays)
			fmt.Printf("removed %d tokens\n", n)
			return nil
		},
	}
}
