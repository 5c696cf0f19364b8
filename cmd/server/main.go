package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gorilla/handlers"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"holdem-server/internal/config"
	"holdem-server/internal/mux"
	"holdem-server/internal/rng"
	"holdem-server/pkg/balance"
	"holdem-server/pkg/db"
	"holdem-server/pkg/room"
	"holdem-server/pkg/texasholdem"
)

const readTimeout = time.Second * 5
const writeTimeout = time.Second * 10
const shutdownTimeout = time.Second * 10

// Version is the server version
var Version = "v0.0.0-dev"

var cli struct {
	Addr     string `short:"a" default:":5000" help:"The listen address"`
	Config   string `short:"c" help:"Path to the YAML configuration file (overrides HOLDEM_CONFIG_FILE)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

func main() {
	kong.Parse(&cli, kong.Description("Runs a Texas Hold'em table over websockets"))

	if cli.Config != "" {
		_ = os.Setenv("HOLDEM_CONFIG_FILE", cli.Config)
	}

	if err := config.Load(); err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}

	setupLogger()
	cfg := config.Instance()

	store, closeStore, err := openStore(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("could not open balance store")
	}
	defer closeStore()

	tbl, err := texasholdem.NewTable(logrus.WithField("table", cfg.Table.Name), store, texasholdem.Options{
		DefaultStake:   cfg.Table.DefaultStake,
		AutoRestart:    cfg.Table.AutoRestart,
		BalanceTimeout: cfg.Table.BalanceTimeoutDuration(),
		RNG:            rng.Crypto{},
	})
	if err != nil {
		logrus.WithError(err).Fatal("could not create table")
	}

	dealer := room.NewDealer(logrus.StandardLogger(), tbl, room.Options{
		Name:        cfg.Table.Name,
		TurnTimeout: cfg.Table.TurnTimeoutDuration(),
	})
	dealer.StartShift()
	defer dealer.EndShift()

	c := cors.New(cors.Options{
		AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
		AllowedMethods: []string{http.MethodGet},
	})

	srv := &http.Server{
		Addr:         cli.Addr,
		Handler:      loggingHandler(c.Handler(mux.NewMux(Version, dealer))),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logrus.WithField("addr", srv.Addr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logrus.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("server stopped")
	}
}

// openStore returns the balance store for the configured database
// Without a database driver, balances only live as long as the process.
func openStore(cfg config.Database) (balance.Store, func(), error) {
	if cfg.Driver == "" {
		logrus.Warn("no database configured, balances are kept in memory")
		return balance.NewMemoryStore(), func() {}, nil
	}

	dbh, err := db.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, nil, err
	}

	if err := db.Migrate(dbh, cfg.Driver, cfg.MigrationsPath); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}

	return balance.NewSQLStore(dbh), func() { _ = dbh.Close() }, nil
}

func loggingHandler(next http.Handler) http.Handler {
	if config.Instance().Log.DisableAccessLogs {
		return next
	}

	return handlers.CombinedLoggingHandler(os.Stdout, next)
}

func setupLogger() {
	lvl := config.Instance().Log.Level
	if cli.LogLevel != "" {
		lvl = cli.LogLevel
	}

	if lvl != "" {
		level, err := logrus.ParseLevel(lvl)
		if err != nil {
			logrus.WithError(err).Fatal("could not parse level")
		}

		logrus.SetLevel(level)
	}

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}
