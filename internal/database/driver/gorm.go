package driver

import (
	"context"
	"fmt"
	"geofeatures/pkg/lib/sl"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type GORMConfig struct {
	DataSourceName string
	MaxOpenConns   int
	MaxIdleConns   int
	MaxLifetime    time.Duration
	SlowThreshold  time.Duration
}

func (c *GORMConfig) NewGORMDatabase(ctx context.Context, log *slog.Logger) (*gorm.DB, error) {
	const op = "database.driver.gorm.NewGORMDatabase"

	log = log.With(
		slog.String("op", op),
	)

	slow := c.SlowThreshold
	if slow == 0 {
		slow = 100 * time.Millisecond
	}

	// gorm writes through a *log.Logger bridged onto the application handler.
	lg := logger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(c.DataSourceName), &gorm.Config{
		Logger: lg,
	})
	if err != nil {
		log.Error("failed to open database", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Error("failed to get sql.DB", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info(
		"database parameters",
		slog.Int("max number of open connections", c.MaxOpenConns),
		slog.Int("max number of idle connections", c.MaxIdleConns),
		slog.Duration("max lifetime of open connection", c.MaxLifetime),
	)

	sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(c.MaxLifetime)

	if err = sqlDB.PingContext(ctx); err != nil {
		log.Error("failed to ping database", sl.Err(err))
		_ = sqlDB.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return db, nil
}
