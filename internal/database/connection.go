// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/farmlink/agritrace-backend/internal/config"
	"github.com/farmlink/agritrace-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Farm{},
		&models.Season{},
		&models.CultivationProcess{},
		&models.Product{},
		&models.Order{},
		&models.Shipment{},
		&models.Notification{},
		&models.Report{},
		&models.AuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	// The partial unique index on shipments is load-bearing: it is what
	// makes concurrent shipment creation for the same order lose
	// cleanly instead of inserting twice. A failed shipment is excluded
	// so a replacement can be created for the order.
	if err := db.Exec(
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_shipments_order_active ON shipments(order_id) WHERE status <> 'failed' AND deleted_at IS NULL",
	).Error; err != nil {
		return fmt.Errorf("failed to create shipment uniqueness index: %w", err)
	}

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",

		// Catalog indexes
		"CREATE INDEX IF NOT EXISTS idx_farms_owner ON farms(owner_id)",
		"CREATE INDEX IF NOT EXISTS idx_seasons_farm_status ON seasons(farm_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_farm_status ON products(farm_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_cultivation_processes_season_created ON cultivation_processes(season_id, created_at)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_retailer_status ON orders(retailer_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_product ON orders(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",

		// Shipment indexes
		"CREATE INDEX IF NOT EXISTS idx_shipments_driver_status ON shipments(driver_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_shipments_manager ON shipments(manager_id)",
		"CREATE INDEX IF NOT EXISTS idx_shipments_created_at ON shipments(created_at DESC)",

		// Notification and report indexes
		"CREATE INDEX IF NOT EXISTS idx_notifications_recipient_read ON notifications(recipient_id, is_read)",
		"CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status, created_at DESC)",

		// Audit indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_products_search ON products USING GIN(to_tsvector('english', name || ' ' || description))",
		"CREATE INDEX IF NOT EXISTS idx_farms_search ON farms USING GIN(to_tsvector('english', name || ' ' || address))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create bootstrap admin user if none exists
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			ExternalID: "bootstrap-admin",
			FullName:   "System Administrator",
			Email:      "admin@farmlink.dev",
			Role:       models.UserRoleAdmin,
			Status:     models.UserStatusActive,
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	log.Println("Initial data seeding completed")
	return nil
}
