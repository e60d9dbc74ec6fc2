package embeddedmqtt

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// brokerLogger hands the broker's slog output to zap.
func brokerLogger(log *zap.Logger) *slog.Logger {
	return slog.New(&zapHandler{log: log})
}

type zapHandler struct {
	log *zap.Logger
}

func (h *zapHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.log.Core().Enabled(zapLevel(level))
}

func (h *zapHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]zap.Field, 0, r.NumAttrs())
	quiet := false
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "error" && isHangup(a.Value) {
			quiet = true
		}
		fields = append(fields, zap.Any(a.Key, a.Value.Resolve().Any()))
		return true
	})
	level := zapLevel(r.Level)
	if quiet {
		// Remotes drop without DISCONNECT all the time.
		level = zapcore.DebugLevel
	}
	if ce := h.log.Check(level, r.Message); ce != nil {
		ce.Write(fields...)
	}
	return nil
}

func (h *zapHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make([]zap.Field, 0, len(attrs))
	for _, a := range attrs {
		fields = append(fields, zap.Any(a.Key, a.Value.Resolve().Any()))
	}
	return &zapHandler{log: h.log.With(fields...)}
}

func (h *zapHandler) WithGroup(name string) slog.Handler {
	return &zapHandler{log: h.log.With(zap.Namespace(name))}
}

func zapLevel(l slog.Level) zapcore.Level {
	switch {
	case l >= slog.LevelError:
		return zapcore.ErrorLevel
	case l >= slog.LevelWarn:
		return zapcore.WarnLevel
	case l >= slog.LevelInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}

func isHangup(v slog.Value) bool {
	switch v.Kind() {
	case slog.KindString:
		return strings.HasSuffix(v.String(), "EOF")
	case slog.KindAny:
		err, ok := v.Any().(error)
		return ok && (errors.Is(err, io.EOF) || strings.HasSuffix(err.Error(), "EOF"))
	}
	return false
}
