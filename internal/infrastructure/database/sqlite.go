package database

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func sqliteDialector(path string) gorm.Dialector {
	return sqlite.Open(path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
}

// NewSQLiteMemory opens a private in-memory database on a single connection,
// so every transaction is serialised. Used by tests and local runs.
func NewSQLiteMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), newGormConfig(nil, "test"))
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
