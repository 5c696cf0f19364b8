package main

import (
	"database/sql"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"holdem-server/internal/config"
	"holdem-server/pkg/db"
)

var cli struct {
	Config  string        `short:"c" help:"Path to the YAML configuration file (overrides HOLDEM_CONFIG_FILE)"`
	Timeout time.Duration `short:"t" default:"10s" help:"How long to wait for the database"`
}

func main() {
	kong.Parse(&cli, kong.Description("Runs the balance store migrations"))

	if cli.Config != "" {
		_ = os.Setenv("HOLDEM_CONFIG_FILE", cli.Config)
	}

	cfg := config.Instance().Database
	if cfg.Driver == "" {
		logrus.Fatal("no database driver configured")
	}

	dbh := waitForDB(cfg, cli.Timeout)
	defer dbh.Close()

	if err := db.Migrate(dbh, cfg.Driver, cfg.MigrationsPath); err != nil {
		logrus.WithError(err).Fatal("could not run migrations")
	}

	logrus.Info("migrations complete")
}

func waitForDB(cfg config.Database, wait time.Duration) *sql.DB {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()

	for {
		dbh, err := db.Open(cfg.Driver, cfg.DSN)
		if err == nil {
			return dbh
		}

		logrus.WithError(err).Debug("database is not ready")

		select {
		case <-timeout.C:
			logrus.WithError(err).Fatal("could not connect to database")
		case <-time.After(time.Millisecond * 500):
		}
	}
}
