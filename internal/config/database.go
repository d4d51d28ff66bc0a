package config

import (
	"fmt"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ride_hailing/internal/logger"
	"ride_hailing/internal/models"
)

// InitDB opens the Postgres connection described by cfg and migrates the schema.
func InitDB(cfg Config) (*gorm.DB, error) {
	db, err := gorm.Open(Dialector(cfg), GormConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Dialector builds the postgres dialector over pgx, or over lib/pq when
// DB_DRIVER=postgres.
func Dialector(cfg Config) gorm.Dialector {
	pc := postgres.Config{
		DSN: fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, cfg.DBTimezone,
		),
	}
	if cfg.DBDriver == DriverLibPQ {
		pc.DriverName = DriverLibPQ
	}
	return postgres.New(pc)
}

// GormConfig is shared by the server and the test database so constraint
// violations surface as gorm.ErrDuplicatedKey on every dialect.
func GormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.GormLogger(),
		TranslateError: true,
	}
}

// Migrate brings the roles, users and driver_profiles tables up to date.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Role{}, &models.User{}, &models.DriverProfile{}); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}
