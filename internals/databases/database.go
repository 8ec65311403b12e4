package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"poolbooking_backend/internals/configs"
)

// Connect opens the configured database. postgres runs through PgBouncer in
// production, so prepared statement caching stays off.
func Connect(cfg *configs.Config, log *zap.Logger) (*gorm.DB, error) {
	log.Info("🔌 connecting to database", zap.String("driver", cfg.DBDriver))

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DBName)
	default:
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=poolbooking&options=-c statement_timeout=3000",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode,
		)
		dialector = postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true})
	}

	level := gormLogger.Warn
	if !cfg.IsProduction() {
		level = gormLogger.Info
	}
	db, err := Open(dialector, log, level)
	if err != nil {
		return nil, err
	}
	log.Info("✅ DB connected")
	return db, nil
}

// Open wraps gorm.Open with the settings every caller needs. TranslateError
// makes unique violations surface as gorm.ErrDuplicatedKey on both drivers.
// Accounts are hard-deleted while bookings and allocations keep the id, so
// relations are declared for preloading only, without FK constraints.
func Open(dialector gorm.Dialector, log *zap.Logger, level gormLogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         configs.NewGormLogger(log, level),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },

		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}

func TunePool(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("pool tune failed", zap.Error(err))
		return
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxIdleTime(60 * time.Second)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// IsUniqueViolation detects a unique index rejection. The translated error
// is checked first; the substrings cover drivers that bypass translation.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "sqlstate 23505") ||
		strings.Contains(s, "duplicate key value") ||
		strings.Contains(s, "unique constraint")
}
