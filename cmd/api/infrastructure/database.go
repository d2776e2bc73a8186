package infrastructure

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"user-management-service/internal/adapter/db/sqlstore"
	"user-management-service/internal/config"
	"user-management-service/pkg/logger"
)

// NewDatabase opens the SQL store selected by STORE_DRIVER and migrates the users table.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Store.Driver {
	case config.StorePostgres:
		dialector = pgdriver.Open(cfg.DB.DSN())
	case config.StoreSQLite:
		dialector = sqlite.Open(cfg.Store.SQLitePath)
	default:
		return nil, fmt.Errorf("store driver %q is not SQL backed", cfg.Store.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Store.Driver == config.StoreSQLite {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.DB.ConnMaxIdleTime)
	}

	if err := sqlstore.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	l.Info("database connected",
		zap.String("driver", cfg.Store.Driver),
		zap.Int("max_open_conns", sqlDB.Stats().MaxOpenConnections),
	)

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}
