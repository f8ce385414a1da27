package main

import (
	"context"
	"geofeatures/internal/config"
	"geofeatures/internal/database/driver"
	"geofeatures/internal/database/migrate"
	"geofeatures/internal/loader"
	"geofeatures/pkg/lib/logger"
	"geofeatures/pkg/lib/sl"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, scr := config.MustLoad()
	log := logger.Setup(cfg.Env)

	log.Info("starting loader", slog.String("env", cfg.Env), slog.String("path", cfg.Loader.Path))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, log, cfg, scr)
	stop()

	os.Exit(code)
}

func run(ctx context.Context, log *slog.Logger, cfg *config.Config, scr *config.Secret) int {
	sqlxConfig := &driver.SQLXConfig{
		DriverName:     cfg.DriverName,
		DataSourceName: cfg.DSN(scr.PostgresPassword),
		MaxOpenConns:   1,
		MaxIdleConns:   1,
		MaxLifetime:    cfg.MaxLifetime,
	}

	db, err := sqlxConfig.NewSQLXDatabase(ctx, log)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		return 1
	}
	defer db.Close()

	if cfg.Migrate {
		if err := migrate.EnsureSchema(ctx, log, db); err != nil {
			log.Error("failed to ensure schema", sl.Err(err))
			return 1
		}
	}

	if !loader.Run(ctx, log, db, cfg.Loader) {
		return 1
	}
	return 0
}
