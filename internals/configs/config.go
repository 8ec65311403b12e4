package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// DefaultSlots are the pool session start times offered when POOL_SLOTS is unset.
var DefaultSlots = []string{"07:00", "08:00", "09:00", "10:00", "11:00", "12:00", "13:00", "14:00", "15:00", "16:00", "17:00", "18:00", "19:00"}

type Config struct {
	AppEnv string `validate:"required,oneof=development production test"`
	Port   string `validate:"required,numeric"`

	DBDriver   string `validate:"required,oneof=postgres sqlite"`
	DBHost     string `validate:"required_if=DBDriver postgres"`
	DBPort     string `validate:"required_if=DBDriver postgres"`
	DBUser     string `validate:"required_if=DBDriver postgres"`
	DBPassword string
	DBName     string `validate:"required"`
	DBSSLMode  string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`

	JWTSecret string        `validate:"required,min=16"`
	AccessTTL time.Duration `validate:"required"`

	PoolTimezone string   `validate:"required"`
	PoolSlots    []string `validate:"required,min=1,dive,datetime=15:04"`

	BlacklistTTLDays int      `validate:"min=1"`
	CleanupCron      string   `validate:"required"`
	CorsOrigins      []string `validate:"dive,url"`
}

var validate = validator.New()

// =======================
// ENV LOADER
// =======================

// LoadEnv reads .env into the process environment unless running on a managed
// platform, where the environment is authoritative.
func LoadEnv(log *zap.Logger) {
	if os.Getenv("RAILWAY_ENVIRONMENT") != "" {
		log.Info("🚀 running on managed platform, using system environment")
		return
	}
	if err := godotenv.Load(); err != nil {
		log.Warn("⚠️ no .env file found, using system environment")
		return
	}
	log.Info("✅ .env file loaded")
}

// Load builds the Config from the environment and validates it.
func Load() (*Config, error) {
	ttl, err := time.ParseDuration(GetEnv("ACCESS_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("ACCESS_TTL: %w", err)
	}
	blTTL, err := strconv.Atoi(GetEnv("TOKEN_BLACKLIST_TTL_DAYS", "7"))
	if err != nil {
		return nil, fmt.Errorf("TOKEN_BLACKLIST_TTL_DAYS: %w", err)
	}

	cfg := &Config{
		AppEnv:           GetEnv("APP_ENV", "development"),
		Port:             GetEnv("PORT", "3000"),
		DBDriver:         GetEnv("DB_DRIVER", "postgres"),
		DBHost:           GetEnv("DB_HOST"),
		DBPort:           GetEnv("DB_PORT", "5432"),
		DBUser:           GetEnv("DB_USER"),
		DBPassword:       GetEnv("DB_PASSWORD"),
		DBName:           GetEnv("DB_NAME"),
		DBSSLMode:        GetEnv("DB_SSLMODE", "require"),
		JWTSecret:        GetEnv("JWT_SECRET"),
		AccessTTL:        ttl,
		PoolTimezone:     GetEnv("POOL_TIMEZONE", "UTC"),
		PoolSlots:        splitCSV(GetEnv("POOL_SLOTS"), DefaultSlots),
		BlacklistTTLDays: blTTL,
		CleanupCron:      GetEnv("BLACKLIST_CLEANUP_CRON", "@daily"),
		CorsOrigins:      splitCSV(GetEnv("CORS_ORIGINS"), []string{"http://localhost:5173"}),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct rules plus the timezone name.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(cfg.PoolTimezone); err != nil {
		return fmt.Errorf("invalid configuration: POOL_TIMEZONE %q: %w", cfg.PoolTimezone, err)
	}
	return nil
}

// Location returns the pool timezone. Validate has already proven it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.PoolTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func splitCSV(raw string, def []string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return append([]string(nil), def...)
	}
	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
