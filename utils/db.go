package utils

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/quillfeed/quillfeed-backend/model"
)

const pqUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. Used to translate race-lost duplicate inserts into their domain
// errors instead of a 5xx.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

// GormTransaction is a callback executed inside db.Transaction. Returning an
// error rolls the whole transaction back.
type GormTransaction func(tx *gorm.DB) error

// GetDBConnection connects to the database configured via DB_* environment
// variables.
func GetDBConnection() (*gorm.DB, error) {
	return GetCustomizedDBConnection(os.Getenv("DB_NAME"), "require")
}

// GetTestingDBConnection connects to the shared "testing" database, which is
// only used as a control connection to create and drop scratch databases.
func GetTestingDBConnection() (*gorm.DB, error) {
	return GetCustomizedDBConnection("testing", "disable")
}

// GetCustomizedDBConnection opens the named database through lib/pq so that
// storage failures surface as *pq.Error and constraint violations can be told
// apart from transient errors.
func GetCustomizedDBConnection(dbName string, sslmode string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASS"),
		dbName,
		os.Getenv("DB_PORT"),
		sslmode,
	)

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{})
}

// DatabaseSetupAndMigration migrates all data models. Safe to run on every
// server start.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Author{},
		&model.Subscription{},
		&model.Article{},
		&model.LikedItem{},
		&model.ChatPage{},
		&model.Message{},
	)
}

// CreateTempDB creates a uniquely named scratch database, migrates it and
// registers a cleanup that drops it when the test finishes. Tests touching
// the database must use this instead of a shared database so that they can
// run in parallel.
func CreateTempDB(t *testing.T) (*gorm.DB, string) {
	admin, err := GetTestingDBConnection()
	if err != nil {
		t.Fatalf("fail to connect to the testing database: %v", err)
	}

	dbName := "tmp_" + RandomAlphabetString(12)
	if err := admin.Exec("CREATE DATABASE " + dbName).Error; err != nil {
		t.Fatalf("fail to create temp database %s: %v", dbName, err)
	}

	db, err := GetCustomizedDBConnection(dbName, "disable")
	if err != nil {
		t.Fatalf("fail to connect to temp database %s: %v", dbName, err)
	}
	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatalf("fail to migrate temp database %s: %v", dbName, err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
		admin.Exec("DROP DATABASE " + dbName)
	})

	return db, dbName
}
