package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// NewSQLiteService opens a SQLite database for local runs and tests. An empty path or
// ":memory:" gives a private in-memory database.
//
// The pool is pinned to one connection: SQLite serializes writers anyway, and an
// in-memory database lives only as long as its connection.
func NewSQLiteService(logg *logger.Logger, path string) (*Service, error) {
	serviceLog := logg.With("service", "SQLiteService")

	path = strings.TrimSpace(path)
	if path == "" {
		path = ":memory:"
	}
	dsn := path
	if path != ":memory:" && !strings.Contains(path, "?") {
		dsn = path + "?_busy_timeout=5000&_foreign_keys=off"
	}

	cfg := gormConfig()
	cfg.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	serviceLog.Debug("Opened SQLite", "path", path)
	return &Service{db: db, log: serviceLog, driver: DriverSQLite}, nil
}

// Open picks the driver by name.
func Open(logg *logger.Logger, driver, sqlitePath string) (*Service, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", DriverPostgres:
		return NewPostgresService(logg, PostgresConfigFromEnv(logg))
	case DriverSQLite:
		return NewSQLiteService(logg, sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}
