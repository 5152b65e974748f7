package logging

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var current atomic.Pointer[zap.Logger]

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "WEATHERSYNC_LOG_LEVEL"

// maxDumpBytes caps hex and ascii dumps in log fields. It matches the
// largest outbound dictionary the link accepts.
const maxDumpBytes = 656

var levels = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}

// Initialize logs to stderr at level, falling back to WEATHERSYNC_LOG_LEVEL.
// With neither set the logger stays silent.
func Initialize(level string) error {
	return InitializeTo(level, "stderr")
}

// InitializeTo is Initialize with an explicit output: "stderr", "stdout" or a
// file path. Files ending in .json or .jsonl get JSON lines, everything else
// the console encoder. Only stderr is colored.
func InitializeTo(level string, output string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		current.Store(zap.NewNop())
		return nil
	}

	zapLevel, levelErr := ParseLevel(level)

	encoding := "console"
	switch strings.ToLower(filepath.Ext(output)) {
	case ".json", ".jsonl":
		encoding = "json"
	}

	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	if output == "stderr" {
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if encoding == "json" {
		enc = zap.NewProductionEncoderConfig()
	}
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
	}

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	current.Store(built)

	if levelErr != nil {
		built.Warn("Unknown log level, using info", zap.String("level", level))
	}
	return nil
}

// ParseLevel maps a level name to a zap level. Unknown names return info
// and an error.
func ParseLevel(level string) (zapcore.Level, error) {
	if l, ok := levels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
}

// SetLogger replaces the global logger. Tests use it to install an observer;
// nil restores the silent logger.
func SetLogger(l *zap.Logger) {
	current.Store(l)
}

// GetLogger returns the global logger, a no-op until initialized.
func GetLogger() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	return zap.NewNop()
}

func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogConnection logs a companion link event such as "connected" or "closed".
func LogConnection(url string, event string) {
	Info("Link "+event, zap.String("url", url))
}

// LogMessage logs a dictionary crossing the link. keys are the tuple keys
// and summary is the dictionary's String form. The hex dump is only built
// when debug is enabled.
func LogMessage(direction string, keys []uint32, summary string, data []byte) {
	l := GetLogger()
	if !l.Core().Enabled(zapcore.DebugLevel) {
		return
	}
	l.Debug("Link message",
		zap.String("direction", direction),
		zap.Uint32s("keys", keys),
		zap.Int("length", len(data)),
		zap.String("message", summary),
		zap.String("hex_dump", hexDump(data)),
	)
}

// LogRawBytes logs bytes that failed to decode.
func LogRawBytes(label string, data []byte) {
	Debug(label,
		zap.Int("length", len(data)),
		zap.String("hex", hexDump(data)),
		zap.String("ascii", asciiDump(data)),
	)
}

func hexDump(data []byte) string {
	if len(data) > maxDumpBytes {
		return hex.EncodeToString(data[:maxDumpBytes]) + "..."
	}
	return hex.EncodeToString(data)
}

func asciiDump(data []byte) string {
	if len(data) > maxDumpBytes {
		data = data[:maxDumpBytes]
	}
	var b strings.Builder
	b.Grow(len(data))
	for _, c := range data {
		if c < 32 || c > 126 {
			c = '.'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Sync flushes buffered entries.
func Sync() {
	_ = GetLogger().Sync()
}
