package config

import (
	"log/slog"
	"strings"
)

var (
	SlogServiceName    = slog.String("service", ServiceName)
	SlogServiceAddress = slog.String("address", ServerAddress)
)

func ErrAttr(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

// SlogLevel maps LOG_LEVEL to a slog.Level, defaulting to info.
func SlogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
