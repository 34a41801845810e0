package config

import (
	"log/slog"
	"os"
	"strings"
)

var Logger *slog.Logger

// InitLogger installs the process-wide JSON logger. The level comes from
// LOG_LEVEL; outside production the handler also records source locations
// and a human-readable local timestamp.
func InitLogger() {
	opts := &slog.HandlerOptions{Level: logLevel()}
	if os.Getenv("ENV") != "production" {
		opts.AddSource = true
		opts.ReplaceAttr = replaceTimeAttr
	}

	Logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(Logger)

	slog.Info("Logger initialized successfully", "level", opts.Level)
}

func logLevel() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func replaceTimeAttr(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.String("time", a.Value.Time().Local().Format("2006-01-02 15:04:05"))
	}
	return a
}
