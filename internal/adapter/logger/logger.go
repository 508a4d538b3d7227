package logger

import (
	"github.com/garageflow/garage_fleet_service/internal/core/ports"

	"go.uber.org/zap"
)

// LoggerAdapter implements ports.LoggerPort on top of zap.
type LoggerAdapter struct {
	logger *zap.Logger
}

func NewLoggerAdapter(env string) *LoggerAdapter {
	var logger *zap.Logger
	var err error
	if env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		logger = zap.NewNop()
	}

	return &LoggerAdapter{logger: logger}
}

func (l *LoggerAdapter) Info(message string, fields map[string]interface{}) {
	l.logger.Info(message, toZapFields(fields)...)
}

func (l *LoggerAdapter) Warn(message string, fields map[string]interface{}) {
	l.logger.Warn(message, toZapFields(fields)...)
}

func (l *LoggerAdapter) Error(message string, fields map[string]interface{}) {
	l.logger.Error(message, toZapFields(fields)...)
}

func (l *LoggerAdapter) Sync() error {
	return l.logger.Sync()
}

func toZapFields(fields map[string]interface{}) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for key, value := range fields {
		zapFields = append(zapFields, zap.Any(key, value))
	}
	return zapFields
}

var _ ports.LoggerPort = (*LoggerAdapter)(nil)
