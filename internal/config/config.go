package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
	"golang.org/x/crypto/bcrypt"
)

const devJWTSecret = "supersecret"

// Database drivers accepted in DB_DRIVER.
const (
	DriverPgx   = "pgx"
	DriverLibPQ = "postgres"
)

type Config struct {
	AppPort int
	GinMode string

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	DBTimezone string

	JWTSecret  string
	JWTTTL     time.Duration
	BcryptCost int

	UploadDir      string
	UploadMaxBytes int64

	CORSOrigins []string

	LogFile  string
	LogLevel string
}

// Load reads the configuration from the environment, loading .env first if present.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on env vars")
	}

	cfg := Config{
		AppPort: cast.ToInt(getEnv("APP_PORT", 7777)),
		GinMode: cast.ToString(getEnv("GIN_MODE", "release")),

		DBDriver:   strings.ToLower(cast.ToString(getEnv("DB_DRIVER", DriverPgx))),
		DBHost:     cast.ToString(getEnv("DB_HOST", "localhost")),
		DBPort:     cast.ToString(getEnv("DB_PORT", "5432")),
		DBUser:     cast.ToString(getEnv("DB_USER", "postgres")),
		DBPassword: cast.ToString(getEnv("DB_PASSWORD", "password")),
		DBName:     cast.ToString(getEnv("DB_NAME", "ride_hailing")),
		DBSSLMode:  cast.ToString(getEnv("DB_SSLMODE", "disable")),
		DBTimezone: cast.ToString(getEnv("DB_TIMEZONE", "UTC")),

		JWTSecret:  cast.ToString(getEnv("JWT_SECRET", "")),
		JWTTTL:     cast.ToDuration(getEnv("JWT_TTL", "1h")),
		BcryptCost: cast.ToInt(getEnv("BCRYPT_COST", bcrypt.DefaultCost)),

		UploadDir:      cast.ToString(getEnv("UPLOAD_DIR", "./uploads")),
		UploadMaxBytes: cast.ToInt64(getEnv("UPLOAD_MAX_BYTES", 5<<20)),

		CORSOrigins: splitList(cast.ToString(getEnv("CORS_ORIGINS", ""))),

		LogFile:  cast.ToString(getEnv("LOG_FILE", "./logs/app.log")),
		LogLevel: cast.ToString(getEnv("LOG_LEVEL", "info")),
	}

	if cfg.JWTSecret == "" {
		logrus.Warn("JWT_SECRET not set, using development fallback secret")
		cfg.JWTSecret = devJWTSecret
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = time.Hour
	}
	if cfg.DBDriver != DriverPgx && cfg.DBDriver != DriverLibPQ {
		logrus.Warnf("Unknown DB_DRIVER %q, using %s", cfg.DBDriver, DriverPgx)
		cfg.DBDriver = DriverPgx
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		cfg.BcryptCost = bcrypt.DefaultCost
	}

	return cfg
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key string, defaultValue interface{}) interface{} {
	if v, exists := os.LookupEnv(key); exists && v != "" {
		return v
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
