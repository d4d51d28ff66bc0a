package config

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DB_DRIVER", "JWT_SECRET", "JWT_TTL", "BCRYPT_COST", "CORS_ORIGINS", "UPLOAD_MAX_BYTES"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.DBDriver != DriverPgx {
		t.Errorf("DBDriver = %q", cfg.DBDriver)
	}
	if cfg.AppPort != 7777 {
		t.Errorf("AppPort = %d", cfg.AppPort)
	}
	if cfg.JWTSecret != devJWTSecret {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.JWTTTL != time.Hour {
		t.Errorf("JWTTTL = %v", cfg.JWTTTL)
	}
	if cfg.BcryptCost != bcrypt.DefaultCost {
		t.Errorf("BcryptCost = %d", cfg.BcryptCost)
	}
	if cfg.UploadMaxBytes != 5<<20 {
		t.Errorf("UploadMaxBytes = %d", cfg.UploadMaxBytes)
	}
	if len(cfg.CORSOrigins) != 0 {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("JWT_SECRET", "a-very-long-secret")
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("BCRYPT_COST", "99")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg := Load()

	if cfg.AppPort != 9090 {
		t.Errorf("AppPort = %d", cfg.AppPort)
	}
	if cfg.JWTSecret != "a-very-long-secret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
	if cfg.JWTTTL != 30*time.Minute {
		t.Errorf("JWTTTL = %v", cfg.JWTTTL)
	}
	if cfg.BcryptCost != bcrypt.DefaultCost {
		t.Errorf("out of range BCRYPT_COST not reset: %d", cfg.BcryptCost)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
}

func TestDialectorDriver(t *testing.T) {
	cases := []struct {
		env, wantDriver string
	}{
		{"", ""},
		{"pgx", ""},
		{"Postgres", DriverLibPQ},
		{"mysql", ""},
	}
	for _, c := range cases {
		t.Setenv("DB_DRIVER", c.env)
		cfg := Load()

		d, ok := Dialector(cfg).(*postgres.Dialector)
		if !ok {
			t.Fatalf("DB_DRIVER=%q: dialector %T", c.env, Dialector(cfg))
		}
		if d.DriverName != c.wantDriver {
			t.Errorf("DB_DRIVER=%q: driver name %q, want %q", c.env, d.DriverName, c.wantDriver)
		}
	}
}
