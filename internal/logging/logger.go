// Package logging wraps go.uber.org/zap behind the package-level
// Debug/Info/Warn/Error functions the rest of this codebase calls,
// so call sites stay free of a logger argument while the underlying
// implementation gets zap's structured, leveled output.
package logging

import (
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"wallet-core/internal/config"
)

var (
	mu   sync.RWMutex
	base *zap.Logger
)

// Init builds the process-wide zap logger from cfg.Logging.
func Init(cfg *config.Config) {
	level := parseLevel(cfg.Logging.Level)

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if strings.EqualFold(cfg.Logging.Format, "console") {
		encoder = zapcore.NewConsoleEncoder(encoderCfg)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(os.Stdout)), level)

	mu.Lock()
	base = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	mu.Unlock()
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if base == nil {
		return zap.NewNop()
	}
	return base
}

func toFields(f map[string]interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// Debug logs at debug level with optional structured fields.
func Debug(message string, fields ...map[string]interface{}) {
	logger().Debug(message, toFields(merge(fields))...)
}

// Info logs at info level with optional structured fields.
func Info(message string, fields ...map[string]interface{}) {
	logger().Info(message, toFields(merge(fields))...)
}

// Warn logs at warn level with optional structured fields.
func Warn(message string, fields ...map[string]interface{}) {
	logger().Warn(message, toFields(merge(fields))...)
}

// Error logs at error level, attaching err under the "error" field.
func Error(message string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	zfields := toFields(fields)
	if err != nil {
		zfields = append(zfields, zap.Error(err))
	}
	logger().Error(message, zfields...)
}

// Sync flushes any buffered log entries. Call before process exit.
func Sync() {
	_ = logger().Sync()
}

func merge(fs []map[string]interface{}) map[string]interface{} {
	if len(fs) == 0 {
		return nil
	}
	return fs[0]
}
