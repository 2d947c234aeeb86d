package common

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// SetupLoggerWithFile configures both std log and the slog default logger.
// format: console|json; level: debug|info|warn|error.
// If filePath != "", logs write to a rotating file.
func SetupLoggerWithFile(level, format, filePath string, maxSizeMB, maxBackups, maxAgeDays int, compress bool) {
	var w io.Writer = os.Stderr
	if strings.TrimSpace(filePath) != "" {
		w = &lumberjack.Logger{Filename: filePath, MaxSize: maxSizeMB, MaxBackups: maxBackups, MaxAge: maxAgeDays, Compress: compress}
	}
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: lvl}
	var h slog.Handler
	if strings.ToLower(format) == "json" {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	h = &countHandler{next: h}
	slog.SetDefault(slog.New(h))
	// std log bridge to the same writer
	if strings.ToLower(format) == "json" {
		log.SetFlags(0)
	} else {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}
	log.SetOutput(writerFunc(func(p []byte) (int, error) { return w.Write(p) }))
}

// SetupLogger is the no-file variant used by short-lived commands.
func SetupLogger(level, format string) {
	SetupLoggerWithFile(level, format, "", 0, 0, 0, false)
}

type writerFunc func(p []byte) (n int, err error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

// --------- counters for log levels ----------

var cntDebug, cntInfo, cntWarn, cntError atomic.Int64

type countHandler struct{ next slog.Handler }

func (c *countHandler) Enabled(ctx context.Context, lvl slog.Level) bool {
	return c.next.Enabled(ctx, lvl)
}

func (c *countHandler) Handle(ctx context.Context, rec slog.Record) error {
	switch rec.Level {
	case slog.LevelDebug:
		cntDebug.Add(1)
	case slog.LevelInfo:
		cntInfo.Add(1)
	case slog.LevelWarn:
		cntWarn.Add(1)
	case slog.LevelError:
		cntError.Add(1)
	}
	return c.next.Handle(ctx, rec)
}

func (c *countHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &countHandler{next: c.next.WithAttrs(attrs)}
}

func (c *countHandler) WithGroup(name string) slog.Handler {
	return &countHandler{next: c.next.WithGroup(name)}
}

// GetLogCounters returns current log counters by level.
func GetLogCounters() map[string]int64 {
	d := cntDebug.Load()
	i := cntInfo.Load()
	w := cntWarn.Load()
	e := cntError.Load()
	return map[string]int64{"debug": d, "info": i, "warn": w, "error": e, "total": d + i + w + e}
}
