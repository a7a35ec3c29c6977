// Package db owns connections and schema migration for the Mission Control store.
package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Driver names accepted in configuration.
const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
)

// DSN builds a MySQL DSN for the named database.
func DSN(host string, port int, database string) string {
	return fmt.Sprintf("root@tcp(%s:%d)/%s?parseTime=true", host, port, database)
}

// Open connects to the store. For sqlite, path is a file path or ":memory:".
// For mysql, host/port/database select the server and schema.
func Open(driver, path, host string, port int, database string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	switch driver {
	case DriverSQLite, "":
		db, err := gorm.Open(sqlite.Open(path), cfg)
		if err != nil {
			return nil, fmt.Errorf("db: open sqlite %s: %w", path, err)
		}
		return db, nil
	case DriverMySQL:
		db, err := gorm.Open(mysql.Open(DSN(host, port, database)), cfg)
		if err != nil {
			return nil, fmt.Errorf("db: connect to %s:%d/%s: %w", host, port, database, err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("db: unknown driver %q", driver)
	}
}

// OpenMemory opens a fresh in-memory sqlite store, used by tests and `mctl db`
// dry runs.
func OpenMemory() (*gorm.DB, error) {
	return Open(DriverSQLite, ":memory:", "", 0, "")
}
