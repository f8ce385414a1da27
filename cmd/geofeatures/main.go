package main

import (
	"context"
	"errors"
	"geofeatures/internal/config"
	"geofeatures/internal/database/driver"
	"geofeatures/internal/database/migrate"
	"geofeatures/internal/database/repository"
	"geofeatures/internal/database/repository/orm"
	"geofeatures/internal/database/repository/pgsql"
	"geofeatures/internal/http-server/router"
	"geofeatures/pkg/lib/logger"
	"geofeatures/pkg/lib/sl"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, scr := config.MustLoad()
	log := logger.Setup(cfg.Env)

	log.Info("starting app", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage))

	log.Debug("debug messages are enabled")

	ctx := context.Background()

	repo, closer, err := setupRepository(ctx, log, cfg, scr)
	if err != nil {
		log.Error("failed to init storage", sl.Err(err))
		os.Exit(1)
	}

	handler, err := router.New(log, cfg.HTTPServer, repo)
	if err != nil {
		log.Error("failed to init router", sl.Err(err))
		os.Exit(1)
	}

	log.Info("starting server", slog.String("address", cfg.Address))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{
		Addr:         cfg.Address,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		IdleTimeout:  cfg.IdleTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Info("shutting server", sl.Err(err))
				return
			}
			log.Error("failed to start server", sl.Err(err))
			done <- syscall.SIGTERM
		}
	}()

	log.Info("server started")
	sign := <-done
	log.Info("stopping server", slog.String("signal", sign.String()))

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop server", sl.Err(err))
		return
	}

	if err := closer.Close(); err != nil {
		log.Error("failed to close storage", sl.Err(err))
		return
	}

	log.Info("server stopped")
}

// setupRepository opens the pool for the configured backend once and returns
// the repository together with the pool to close on shutdown.
func setupRepository(ctx context.Context, log *slog.Logger, cfg *config.Config, scr *config.Secret) (repository.FeatureRepository, io.Closer, error) {
	dataSourceName := cfg.DSN(scr.PostgresPassword)

	switch cfg.Storage {
	case config.StorageORM:
		gormConfig := &driver.GORMConfig{
			DataSourceName: dataSourceName,
			MaxOpenConns:   cfg.MaxOpenConns,
			MaxIdleConns:   cfg.MaxIdleConns,
			MaxLifetime:    cfg.MaxLifetime,
		}

		db, err := gormConfig.NewGORMDatabase(ctx, log)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}

		repo := orm.NewFeatureRepository(db)
		if cfg.Migrate {
			if err := repo.Migrate(ctx); err != nil {
				_ = sqlDB.Close()
				return nil, nil, err
			}
		}
		return repo, sqlDB, nil

	default:
		sqlxConfig := &driver.SQLXConfig{
			DriverName:     cfg.DriverName,
			DataSourceName: dataSourceName,
			MaxOpenConns:   cfg.MaxOpenConns,
			MaxIdleConns:   cfg.MaxIdleConns,
			MaxLifetime:    cfg.MaxLifetime,
		}

		db, err := sqlxConfig.NewSQLXDatabase(ctx, log)
		if err != nil {
			return nil, nil, err
		}

		if cfg.Migrate {
			if err := migrate.EnsureSchema(ctx, log, db); err != nil {
				_ = db.Close()
				return nil, nil, err
			}
		}
		return pgsql.NewFeatureRepository(db), db, nil
	}
}
