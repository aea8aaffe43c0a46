package loggercontext

import (
	"context"

	"go.uber.org/zap"

	"github.com/balain/bkmrkr/internal/logging"
)

type key string

const loggerKey key = "loggerKey"

func WithLogger(ctx context.Context, logger *zap.SugaredLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func Logger(ctx context.Context) *zap.SugaredLogger {
	value := ctx.Value(loggerKey)
	logger, ok := value.(*zap.SugaredLogger)
	if !ok {
		return logging.DefaultLogger
	}
	return logger
}
