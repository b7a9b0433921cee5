package configslog

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the structured logger used across the application.
	Log *zap.Logger
	// SLog is the sugared variant for printf-style messages.
	SLog *zap.SugaredLogger
)

func init() {
	// Packages may log before InitLogger runs (tests, CLI tools).
	Log = zap.NewNop()
	SLog = Log.Sugar()
}

// InitLogger builds the global logger. APP_ENV=production switches to JSON output.
func InitLogger() {
	var cfg zap.Config
	if os.Getenv("APP_ENV") == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		panic("logger could not be initialized: " + err.Error())
	}
	SetLogger(logger)
}

// SetLogger replaces the global loggers. Tests use it with zaptest.
func SetLogger(logger *zap.Logger) {
	Log = logger
	SLog = logger.Sugar()
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	if Log != nil {
		_ = Log.Sync()
	}
}
