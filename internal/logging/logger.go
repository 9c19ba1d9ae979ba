package logging

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger   *zap.Logger
	loggerMu sync.RWMutex
)

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "INELS_LOG_LEVEL"

// maxPayloadLog caps the payload bytes written to debug logs
const maxPayloadLog = 512

// Initialize creates a new logger with the specified level.
// If level is empty, it checks INELS_LOG_LEVEL environment variable.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		SetLogger(zap.NewNop())
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		return err
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	SetLogger(l)
	return nil
}

// ParseLevel maps a level name to a zap level
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", level)
	}
}

// SetLogger replaces the global logger. Tests use it to install an observer.
func SetLogger(l *zap.Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()

	if l == nil {
		// Silent until initialized
		return zap.NewNop()
	}
	return l
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogRPCCall logs a completed controller call
func LogRPCCall(method string, endpoint string, elapsed time.Duration, err error) {
	fields := []zap.Field{
		zap.String("method", method),
		zap.String("endpoint", endpoint),
		zap.Duration("elapsed", elapsed),
	}

	if err != nil {
		Warn("Controller call failed", append(fields, zap.Error(err))...)
		return
	}
	Debug("Controller call", fields...)
}

// LogValueChange logs a resource value update
func LogValueChange(id string, previous string, current string, source string) {
	fields := []zap.Field{
		zap.String("resource", id),
		zap.String("previous", previous),
		zap.String("value", current),
		zap.String("source", source),
	}

	if previous == current {
		Debug("Resource value unchanged", fields...)
		return
	}
	Info("Resource value changed", fields...)
}

// LogMQTTMessage logs an MQTT message sent or received by the bridge
func LogMQTTMessage(direction string, topic string, payload []byte) {
	Debug("MQTT message",
		zap.String("direction", direction),
		zap.String("topic", topic),
		zap.Int("length", len(payload)),
		zap.String("payload", truncate(payload)),
	)
}

// LogRawPayload logs a raw request or response body
func LogRawPayload(label string, data []byte) {
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("body", truncate(data)),
	)
}

func truncate(data []byte) string {
	if len(data) > maxPayloadLog {
		return string(data[:maxPayloadLog]) + "..."
	}
	return string(data)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = GetLogger().Sync()
}
