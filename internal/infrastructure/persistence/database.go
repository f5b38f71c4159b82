package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dokan/papershop/internal/infrastructure/config"
	"github.com/dokan/papershop/internal/infrastructure/logger"
	"github.com/dokan/papershop/internal/infrastructure/persistence/tenant"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database is the shared gorm handle of the ledger.
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured driver. SQL is logged through log at
// sqlLevel (silent, error, warn, info).
func NewDatabase(cfg *config.DatabaseConfig, log *zap.Logger, sqlLevel string) (*Database, error) {
	if log == nil {
		log = zap.NewNop()
	}
	return Open(dialectorFor(cfg), cfg, logger.NewGormLogger(log, logger.MapGormLogLevel(sqlLevel)))
}

func dialectorFor(cfg *config.DatabaseConfig) gorm.Dialector {
	if cfg.Driver == config.DriverSQLite {
		return sqlite.Open(cfg.Path + "?_foreign_keys=on")
	}
	return postgres.Open(cfg.DSN())
}

// Open connects through dialector and installs the tenant callbacks, so
// every query on a tenant table is scoped by the context's tenant.
func Open(dialector gorm.Dialector, cfg *config.DatabaseConfig, gormLog gormlogger.Interface) (*Database, error) {
	if gormLog == nil {
		gormLog = gormlogger.Default.LogMode(gormlogger.Silent)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormLog,
		SkipDefaultTransaction: true,
		TranslateError:         true,
		PrepareStmt:            cfg.Driver != config.DriverSQLite,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := tenant.EnableAutoTenantFilter(db, true); err != nil {
		return nil, fmt.Errorf("register tenant callbacks: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	configurePool(sqlDB, cfg)
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Database{DB: db}, nil
}

func configurePool(sqlDB *sql.DB, cfg *config.DatabaseConfig) {
	if cfg.Driver == config.DriverSQLite {
		// a single connection keeps :memory: alive and serializes writers
		sqlDB.SetMaxOpenConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping backs the database health check.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
