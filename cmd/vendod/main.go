// Command vendod runs a vending machine behind the HTTP API. State lives
// in memory and is checkpointed to the configured snapshot store on demand
// and on shutdown.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	vendo "github.com/vendolabs/vendo"
	"github.com/vendolabs/vendo/httpapi"
	"github.com/vendolabs/vendo/store"
	"github.com/vendolabs/vendo/store/memory"
	"github.com/vendolabs/vendo/store/mongo"
	"github.com/vendolabs/vendo/store/postgres"
)

type config struct {
	Addr     string `env:"VENDO_ADDR" envDefault:":8080"`
	LogLevel string `env:"VENDO_LOG_LEVEL" envDefault:"info"`

	Currency      string `env:"VENDO_CURRENCY" envDefault:"KES"`
	StartingCash  int    `env:"VENDO_STARTING_CASH" envDefault:"1000"`
	RestoreOnBoot bool   `env:"VENDO_RESTORE_ON_BOOT" envDefault:"true"`

	StoreDriver string `env:"VENDO_STORE" envDefault:"memory"`
	MongoURI    string `env:"VENDO_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB     string `env:"VENDO_MONGO_DB" envDefault:"vendo"`
	PostgresDSN string `env:"VENDO_POSTGRES_DSN"`

	JWTSecret     string `env:"VENDO_JWT_SECRET,required"`
	AdminUser     string `env:"VENDO_ADMIN_USER" envDefault:"admin"`
	AdminPassHash string `env:"VENDO_ADMIN_PASS_HASH,required"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "vendod:", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	machine := vendo.New(
		vendo.WithLogger(logger),
		vendo.WithStore(st),
		vendo.WithCurrency(cfg.Currency),
		vendo.WithStartingCash(cfg.StartingCash),
	)

	if cfg.RestoreOnBoot {
		if machine.Restore(ctx) {
			logger.Info("machine state restored from snapshot")
		}
	}

	server := httpapi.New(machine, cfg.JWTSecret, cfg.AdminUser, cfg.AdminPassHash, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
	if err := machine.Backup(shutdownCtx); err != nil {
		logger.Error("final backup failed", "error", err)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

func openStore(ctx context.Context, cfg config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "memory":
		return memory.New(), nil

	case "mongo":
		st, err := mongo.New(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil

	case "postgres":
		st, err := postgres.New(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := st.Migrate(ctx); err != nil {
			st.Close()
			return nil, err
		}
		return st, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
