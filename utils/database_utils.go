// database_utils should be the canonical place to put shared DB utils.
// It should not include:
// 1. Any util that doesn't manipulate DB
// 2. Any util that contains business logic
package utils

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/Luismorlan/yatube/model"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	TestDBPrefix         = "testonlydb_"
	TestDBNameCharLength = 8

	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// GormTransaction is the callback function used during db.Transaction in Gorm.
type GormTransaction func(tx *gorm.DB) error

func isTempDB(dbName string) bool {
	return strings.HasPrefix(dbName, TestDBPrefix)
}

func randomTestDBName() string {
	return TestDBPrefix + RandomAlphabetString(TestDBNameCharLength)
}

// dbDriver is "postgres" unless DB_DRIVER says otherwise. Sqlite is meant for
// local development only, DB_NAME is then the database file.
func dbDriver() string {
	if d := os.Getenv("DB_DRIVER"); d != "" {
		return d
	}
	return DriverPostgres
}

// GetDBConnection get a connection to the database specified by env
func GetDBConnection() (*gorm.DB, error) {
	return GetCustomizedConnection(os.Getenv("DB_NAME"))
}

// GetDefaultDBConnection connect to database "postgres" to manage all dbs
func GetDefaultDBConnection() (*gorm.DB, error) {
	return getPostgresDB(os.Getenv("DEFAULT_DB_NAME"), os.Getenv("DEFAULT_DB_USER"), os.Getenv("DEFAULT_DB_PASS"))
}

// GetCustomizedConnection connect to any db
func GetCustomizedConnection(dbName string) (*gorm.DB, error) {
	switch dbDriver() {
	case DriverSqlite:
		return getSqliteDB(dbName)
	case DriverPostgres:
		if dbName == os.Getenv("DEFAULT_DB_NAME") {
			return GetDefaultDBConnection()
		}
		return getPostgresDB(dbName, os.Getenv("DB_USER"), os.Getenv("DB_PASS"))
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %s", dbDriver())
}

// Create a temp DB for testing, note that this function should only be called
// in a testing environment with test state manager testing.T
// It is guaranteed that this DB will be dropped after each test case, user
// will not need to drop the database explicitly.
//
// By default the temp DB is a private in-memory sqlite database, so tests run
// without any server. Set TEST_DB_DRIVER=postgres to run against the postgres
// configured in .env.test instead, in which case there are 2 cases where the
// database won't be cleaned up:
// 1. Test fail due to timeout
// 2. Exit with signal Ctrl+C
// In both cases you should log into the database and do a manual cleanup for
// databases with prefix "testonlydb_".
func CreateTempDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	if os.Getenv("TEST_DB_DRIVER") == DriverPostgres {
		return createTempPostgresDB(t)
	}

	dbName := randomTestDBName()
	db, err := getSqliteDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", dbName))
	if err != nil {
		t.Fatal("fail to open temp sqlite DB: ", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal("cannot get the current SQL DB: ", err)
	}
	// The in-memory DB lives as long as one connection does, and sqlite
	// serializes writers anyway.
	sqlDB.SetMaxOpenConns(1)
	if err := DatabaseSetupAndMigration(db); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db, dbName
}

func createTempPostgresDB(t *testing.T) (*gorm.DB, string) {
	t.Helper()
	db, err := GetDefaultDBConnection()
	if err != nil {
		t.Fatal("cannot connect to DB: ", err)
	}
	dbName := randomTestDBName()
	if err = db.Exec("CREATE DATABASE " + dbName).Error; err != nil {
		t.Fatal("fail to create temp DB with name: ", dbName)
	}
	newDB, err := getPostgresDB(dbName, os.Getenv("DB_USER"), os.Getenv("DB_PASS"))
	if err != nil {
		t.Fatal("fail to connect to newly created DB: ", dbName)
	}
	if err := DatabaseSetupAndMigration(newDB); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		dropTempDB(t, newDB, dbName)

		// Also proactively clean up the DB connections instead of deferring to GC.
		// Otherwise, we might exceed the DB max connection limit in test and
		// causing some tests to fail.
		conn, _ := db.DB()
		conn.Close()
	})

	return newDB, dbName
}

// dropTempDB drops a temp db with given name. This will always be called after
// CreateTempDB. It won't fail on deleting non-existing DB.
func dropTempDB(t *testing.T, curDB *gorm.DB, dbName string) {
	if !isTempDB(dbName) {
		t.Fatal("cannot delete a non-testing DB")
	}

	exists, err := IsDatabaseExist(dbName)
	if err != nil {
		t.Fatal("cannot connect to DB")
	}
	if !exists {
		return
	}

	// We need to close the current DB connection first. Otherwise it's not
	// possible to drop it. However we don't check if sqlDB is closed successfully
	// because fail to close will still produce error when we try to drop it.
	if sqlDB, err := curDB.DB(); err == nil {
		sqlDB.Close()
	}

	db, err := GetDefaultDBConnection()
	if err != nil {
		t.Fatal("cannot connect to DB")
	}
	db.Exec("DROP DATABASE " + dbName)
	if conn, err := db.DB(); err == nil {
		conn.Close()
	}
}

func getPostgresDB(dbName, user, password string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable", os.Getenv("DB_HOST"), user, password, dbName, os.Getenv("DB_PORT"))
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// getSqliteDB turns foreign keys on for every connection, sqlite leaves them off
// by default and the cascades in model rely on them.
func getSqliteDB(dsn string) (*gorm.DB, error) {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return gorm.Open(sqlite.Open(dsn+sep+"_foreign_keys=1"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

// DatabaseSetupAndMigration creates or updates every table the app needs.
func DatabaseSetupAndMigration(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	return nil
}

// IsDatabaseExist returns true on DB exist, returns false on not exist or error
func IsDatabaseExist(dbName string) (bool, error) {
	db, err := GetDefaultDBConnection()
	if err != nil {
		return false, err
	}
	defer func() {
		if conn, err := db.DB(); err == nil {
			conn.Close()
		}
	}()

	var exists bool
	res := db.Raw("SELECT TRUE FROM pg_catalog.pg_database WHERE lower(datname) = lower(?) limit 1;", dbName).Scan(&exists)
	if res.Error != nil {
		return false, res.Error
	}

	return exists, nil
}
