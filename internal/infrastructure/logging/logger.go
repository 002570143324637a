package logging

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config options used in creating the zap logger
type Config struct {
	FilePath string // log file path, stderr when empty
	Level    string // global logging level
	Env      string // app environment
	AppID    string
}

type contextKey string

// loggerKey logger key in request context
const loggerKey contextKey = "logger"

// NewLogger returns a zap logger instance based on the given options. The
// development core writes colored console lines, the production core writes
// ECS-flavored JSON.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	var (
		core zapcore.Core
		err  error
	)
	switch cfg.Env {
	case "production":
		core, err = newProductionCore(cfg)
	default:
		core, err = newDevelopmentCore(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create logger core: %w", err)
	}

	logger := zap.New(core, zap.AddStacktrace(zap.LevelEnablerFunc(func(lv zapcore.Level) bool {
		return lv > zap.WarnLevel
	})), zap.AddCaller())
	return logger, nil
}

func newDevelopmentCore(cfg *Config) (zapcore.Core, error) {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.CallerKey = "log.origin.file.name"
	encoder := zapcore.NewConsoleEncoder(encoderConfig)

	sink, err := getSyncer(cfg)
	if err != nil {
		return nil, err
	}
	return zapcore.NewCore(encoder, sink, levelEnabler(cfg.Level)), nil
}

func newProductionCore(cfg *Config) (zapcore.Core, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoder(func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.UTC().Format("2006-01-02T15:04:05.000Z"))
	})
	encoderConfig.TimeKey = "@timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.LevelKey = "log.level"
	encoderConfig.CallerKey = "log.origin.file.name"
	encoderConfig.StacktraceKey = "error.stack_trace"
	encoder := zapcore.NewJSONEncoder(encoderConfig)

	sink, err := getSyncer(cfg)
	if err != nil {
		return nil, err
	}
	return zapcore.NewCore(encoder, sink, levelEnabler(cfg.Level)), nil
}

func getSyncer(cfg *Config) (zapcore.WriteSyncer, error) {
	if cfg.FilePath == "" {
		return os.Stderr, nil
	}
	fd, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		return nil, err
	}
	return fd, nil
}

func levelEnabler(level string) zapcore.LevelEnabler {
	var lv zapcore.Level
	switch level {
	case "debug":
		lv = zap.DebugLevel
	case "warn":
		lv = zap.WarnLevel
	case "error":
		lv = zap.ErrorLevel
	default:
		lv = zap.InfoLevel
	}
	return zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= lv
	})
}

// SetLoggerInContext set logger into target context
func SetLoggerInContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// ExtractLoggerFromContext returns the context-bound logger, or a no-op logger
// when none has been set (background jobs, tests)
func ExtractLoggerFromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}
