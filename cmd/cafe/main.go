package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"cafe/internal/cli"
	"cafe/internal/config"
	"cafe/internal/console"
	"cafe/internal/infrastructure/logger"
	"cafe/internal/infrastructure/mysql"
	"cafe/internal/menu"
	"cafe/internal/order"
	"cafe/internal/server"
	"cafe/internal/user"
)

func main() {
	flags := pflag.NewFlagSet("cafe", pflag.ExitOnError)
	configFile := flags.String("config", "", "optional config file (yaml, json or toml)")
	flags.Bool("migrate", false, "apply schema migrations before starting")
	flags.Int("http-port", 0, "serve the read-only menu board on this port (0 disables it)")
	flags.String("log-level", "info", "log level")
	flags.Parse(os.Args[1:])

	v := viper.New()
	v.BindPFlag("DB_MIGRATE", flags.Lookup("migrate"))
	v.BindPFlag("HTTP_PORT", flags.Lookup("http-port"))
	v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))

	cfg, err := config.Load(v, *configFile)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	term := console.New(os.Stdin, os.Stdout)

	if cfg.Database.Migrate {
		if err := mysql.Migrate(cfg.Database, zapLogger); err != nil {
			fmt.Fprintf(os.Stderr, "Error - Unable to migrate database: %v\n", err)
			zapLogger.Fatal("migrating database", zap.Error(err))
		}
	}

	fmt.Fprint(os.Stdout, "Connecting to database...")
	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nError - Unable to connect to database: %v\n", err)
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	term.Display("Done")
	zapLogger.Info("database connected", zap.String("host", cfg.Database.Host), zap.String("database", cfg.Database.Name))

	users := user.NewModule(db, zapLogger)
	menus := menu.NewModule(db, users.Gate, zapLogger)
	orders := order.NewModule(db, cfg, users.Gate, zapLogger)

	var srv *server.Server
	if cfg.Server.Port > 0 {
		router := server.NewRouter(db, menus.Controller, zapLogger)
		srv = server.New(cfg.Server.Port, router, zapLogger)
		go func() {
			if err := srv.Start(); err != nil {
				zapLogger.Error("menu board stopped", zap.Error(err))
			}
		}()
	}

	app := cli.New(cli.Dependencies{
		Console:  term,
		Accounts: users.Accounts,
		Profiles: users.Profiles,
		Catalog:  menus.Catalog,
		Orders:   orders.Orders,
		Placer:   orders.Placer,
		Logger:   zapLogger,
		Timeout:  cfg.Database.QueryTimeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		if err != nil {
			zapLogger.Error("console failed", zap.Error(err))
		}
	case <-ctx.Done():
		zapLogger.Info("received shutdown signal")
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("menu board shutdown failed", zap.Error(err))
		}
	}

	fmt.Fprint(os.Stdout, "Disconnecting from database...")
	if err := db.Close(); err != nil {
		zapLogger.Error("closing database", zap.Error(err))
	}
	zapLogger.Info("client stopped")
	fmt.Fprintln(os.Stdout, "Done")
}
