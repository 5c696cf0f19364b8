package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/sirupsen/logrus"

	_ "github.com/golang-migrate/migrate/v4/source/file" // needed
	_ "github.com/lib/pq"                                 // postgres driver
	_ "github.com/mattn/go-sqlite3"                       // sqlite3 driver
)

// supported drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite3  = "sqlite3"
)

// ErrUnknownDriver is returned when the driver isn't postgres or sqlite3
var ErrUnknownDriver = errors.New("unknown database driver")

// Open opens and pings a database handle
func Open(driver, dsn string) (*sql.DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite3 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	dbh, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if driver == DriverSQLite3 {
		// sqlite only allows a single writer
		dbh.SetMaxOpenConns(1)
	}

	if err := dbh.Ping(); err != nil {
		_ = dbh.Close()
		return nil, err
	}

	return dbh, nil
}

// Migrate runs the migrations found in migrationsPath
func Migrate(dbh *sql.DB, driver, migrationsPath string) error {
	logrus.WithField("migrationsPath", migrationsPath).WithField("driver", driver).Info("running migrations")

	var instance database.Driver
	var err error
	switch driver {
	case DriverPostgres:
		instance, err = postgres.WithInstance(dbh, &postgres.Config{})
	case DriverSQLite3:
		instance, err = sqlite3.WithInstance(dbh, &sqlite3.Config{})
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsPath), driver, instance)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}

	return nil
}
