package logger

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Level      string
	Format     string
	OutputFile string
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT_FILE.
func ConfigFromEnv() *LoggerConfig {
	return &LoggerConfig{
		Level:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		Format:     strings.ToLower(getEnv("LOG_FORMAT", "json")),
		OutputFile: getEnv("LOG_OUTPUT_FILE", "stdout"),
	}
}

// ToZapLevel converts the string log level to zapcore.Level.
func (c *LoggerConfig) ToZapLevel() zapcore.Level {
	switch c.Level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	case "panic":
		return zapcore.PanicLevel
	default:
		return zapcore.InfoLevel
	}
}

func (c *LoggerConfig) consoleEncoding() bool {
	return c.Format == "console" || c.Format == "text"
}

func (c *LoggerConfig) outputPaths() (out []string, errOut []string) {
	switch c.OutputFile {
	case "", "stdout":
		return []string{"stdout"}, []string{"stderr"}
	case "stderr":
		return []string{"stderr"}, []string{"stderr"}
	default:
		return []string{c.OutputFile, "stdout"}, []string{c.OutputFile, "stderr"}
	}
}
