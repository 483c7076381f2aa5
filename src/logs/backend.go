package logs

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Backend receives every record the dispatcher emits. The context map may
// be shared between calls and must not be modified.
type Backend interface {
	Log(level Level, message string, context map[string]string)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(level Level, message string, context map[string]string)

func (f BackendFunc) Log(level Level, message string, context map[string]string) {
	f(level, message, context)
}

// LogrusBackend writes records through a logrus logger. The three highest
// severities are written at logrus error level; logrus Fatal and Panic are
// never used because they terminate the caller.
type LogrusBackend struct {
	logger *logrus.Logger
}

func NewLogrusBackend(l *logrus.Logger) *LogrusBackend {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusBackend{logger: l}
}

func (b *LogrusBackend) Log(level Level, message string, context map[string]string) {
	fields := make(logrus.Fields, len(context)+1)
	for k, v := range context {
		fields[k] = v
	}
	fields["severity"] = level.String()
	b.logger.WithFields(fields).Log(logrusLevel(level), message)
}

func logrusLevel(level Level) logrus.Level {
	switch {
	case level >= LevelError:
		return logrus.ErrorLevel
	case level == LevelWarning:
		return logrus.WarnLevel
	case level >= LevelInfo:
		return logrus.InfoLevel
	default:
		return logrus.DebugLevel
	}
}

// ZapBackend writes records through a zap logger with one string field per
// context entry, sorted by key.
type ZapBackend struct {
	logger *zap.Logger
}

func NewZapBackend(l *zap.Logger) *ZapBackend {
	return &ZapBackend{logger: l}
}

func (b *ZapBackend) Log(level Level, message string, context map[string]string) {
	keys := make([]string, 0, len(context))
	for k := range context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fields := make([]zap.Field, 0, len(keys)+1)
	for _, k := range keys {
		fields = append(fields, zap.String(k, context[k]))
	}
	fields = append(fields, zap.String("severity", level.String()))
	b.logger.Log(zapLevel(level), message, fields...)
}

// Sync flushes buffered zap output.
func (b *ZapBackend) Sync() error {
	return b.logger.Sync()
}

func zapLevel(level Level) zapcore.Level {
	switch {
	case level >= LevelError:
		return zapcore.ErrorLevel
	case level == LevelWarning:
		return zapcore.WarnLevel
	case level >= LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

// NewBackend builds the backend selected by cfg.LogBackend.
func NewBackend(cfg Config) (Backend, error) {
	switch cfg.LogBackend {
	case "", "logrus":
		return NewLogrusBackend(logrus.StandardLogger()), nil
	case "zap":
		var config zap.Config
		if cfg.LogFormat == "json" {
			config = zap.NewProductionConfig()
		} else {
			config = zap.NewDevelopmentConfig()
			config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		}
		if lvl, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
			config.Level = zap.NewAtomicLevelAt(lvl)
		}
		config.OutputPaths = []string{"stdout"}
		config.ErrorOutputPaths = []string{"stderr"}
		l, err := config.Build()
		if err != nil {
			return nil, fmt.Errorf("build zap logger: %w", err)
		}
		return NewZapBackend(l), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", cfg.LogBackend)
	}
}
