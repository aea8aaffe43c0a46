package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/balain/bkmrkr/internal/config"
)

// Logger is the process-wide sugared logger. Request handlers should prefer
// the request-scoped logger from loggercontext, which carries user and path
// fields.
var Logger *zap.SugaredLogger

// DefaultLogger is a fallback for code paths that run before Init, such as
// tests that never configure logging.
var DefaultLogger = zap.NewNop().Sugar()

func init() {
	Logger = DefaultLogger
}

func Init(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Environment == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if level, err := zapcore.ParseLevel(cfg.Logging.LogLevel); err == nil {
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	base, err := zapConfig.Build(zap.AddStacktrace(zapcore.FatalLevel))
	if err != nil {
		panic(err)
	}
	Logger = base.Sugar()
}

func Sync() {
	_ = Logger.Sync()
}
