package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"poolbooking_backend/internals/configs"
	database "poolbooking_backend/internals/databases"
	scheduler "poolbooking_backend/internals/features/users/auth/scheduler"
	"poolbooking_backend/internals/helpers/dbtime"
	routes "poolbooking_backend/internals/route"
)

func main() {
	log, err := configs.NewLogger(configs.GetEnv("APP_ENV", "development"))
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	configs.LoadEnv(log)
	cfg, err := configs.Load()
	if err != nil {
		log.Fatal("❌ configuration", zap.Error(err))
	}

	// 🔌 DB connect + pool + schema
	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("❌ database", zap.Error(err))
	}
	database.TunePool(db, log)
	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ migrate", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ⏱ scheduler after the DB is ready
	cleanup, err := scheduler.StartBlacklistCleanup(ctx, db, log, cfg.BlacklistTTLDays, cfg.CleanupCron)
	if err != nil {
		log.Fatal("❌ scheduler", zap.Error(err))
	}

	svc := routes.NewServices(db, log, cfg, dbtime.NewClock(cfg.Location()))
	app := routes.NewApp(cfg, db, log, svc)

	// 🔒 Keep-Alive & connection timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	go func() {
		log.Info("✅ listening", zap.String("port", cfg.Port), zap.String("pool_tz", cfg.PoolTimezone))
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			log.Error("server error", zap.Error(err))
			stop()
		}
	}()

	// graceful shutdown + close the DB pool
	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(shutdownCtx)
	<-cleanup.Stop().Done()
	database.Close(db)
}
