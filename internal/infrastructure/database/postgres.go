package database

import (
	"fmt"

	"github.com/bizfolio/bizfolio-api/internal/config"
	"github.com/bizfolio/bizfolio-api/internal/domain/entity"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("connected to PostgreSQL")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Info().Msg("running database migrations")

	err := db.AutoMigrate(
		// User entities
		&entity.User{},
		&entity.UserSettings{},

		// CRM entities
		&entity.Client{},
		&entity.Lead{},

		// Document entities
		&entity.Quotation{},
		&entity.QuotationItem{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.Payment{},
		&entity.AMCContract{},
		&entity.ServiceVisit{},

		// System entities
		&entity.DocumentCounter{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info().Msg("database migrations completed")
	return nil
}

// SeedDefaultData creates the admin user when configured via environment
// variables and no user with that email exists yet.
func SeedDefaultData(db *gorm.DB) error {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Info().Str("email", adminEmail).Msg("admin user already exists")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if adminName == "" {
		adminName = "Admin"
	}
	firstName := adminName
	lastName := ""
	for i, c := range adminName {
		if c == ' ' {
			firstName = adminName[:i]
			lastName = adminName[i+1:]
			break
		}
	}

	admin := entity.User{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     adminEmail,
		Password:  string(hashed),
		Role:      entity.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info().Str("email", adminEmail).Msg("admin user created")
	return nil
}
