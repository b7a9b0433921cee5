package configs

import (
	"fmt"
	"time"

	"planora.app/configs/configslog"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

// InitDB opens the postgres connection, retrying with exponential backoff
// until DB_MAX_CONNECT_ELAPSED has passed.
func InitDB(cfg DatabaseConfig, production bool) error {
	logLevel := logger.Info
	if production {
		logLevel = logger.Warn
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = cfg.MaxConnectElapsed

	var conn *gorm.DB
	connect := func() error {
		var err error
		conn, err = gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger:         logger.Default.LogMode(logLevel),
			TranslateError: true,
		})
		if err != nil {
			configslog.Log.Warn("Database connection failed, retrying", zap.String("host", cfg.Host), zap.Error(err))
			return err
		}
		sqlDB, err := conn.DB()
		if err != nil {
			return backoff.Permanent(err)
		}
		return sqlDB.Ping()
	}
	if err := backoff.Retry(connect, b); err != nil {
		return fmt.Errorf("database connection could not be established: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	db = conn
	configslog.SLog.Infof("Database connection established (%s:%s/%s)", cfg.Host, cfg.Port, cfg.Name)
	return nil
}

// GetDB returns the shared connection opened by InitDB.
func GetDB() *gorm.DB {
	if db == nil {
		configslog.Log.Fatal("database requested before InitDB")
	}
	return db
}

// CloseDB closes the underlying pool.
func CloseDB() {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		configslog.Log.Error("Database handle could not be retrieved for close", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		configslog.Log.Error("Database connection could not be closed", zap.Error(err))
		return
	}
	configslog.SLog.Info("Database connection closed")
}
