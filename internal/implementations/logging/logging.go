package logging

import (
	"accounts/internal/core/domain/logging"
	"context"
	"errors"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ZapLogger struct {
	logger *zap.Logger
	sugar  *zap.SugaredLogger
	hub    *sentry.Hub
}

func NewZapLogger(debug bool) *ZapLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := config.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("Could not create Zap logger.")
	}
	return newZapLogger(logger)
}

func newZapLogger(logger *zap.Logger) *ZapLogger {
	return &ZapLogger{logger: logger, sugar: logger.Sugar()}
}

// WithSentry returns a logger that also reports every Error call to hub.
func (l *ZapLogger) WithSentry(hub *sentry.Hub) *ZapLogger {
	if hub == nil {
		return l
	}
	return &ZapLogger{logger: l.logger, sugar: l.sugar, hub: hub}
}

func (l *ZapLogger) Sync() {
	_ = l.logger.Sync()
}

func (l *ZapLogger) Debug(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Debugw(msg, keysAndValues(entries)...)
}

func (l *ZapLogger) Info(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Infow(msg, keysAndValues(entries)...)
}

func (l *ZapLogger) Warning(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Warnw(msg, keysAndValues(entries)...)
}

func (l *ZapLogger) Error(ctx context.Context, msg string, entries ...logging.LogEntry) {
	l.sugar.Errorw(msg, keysAndValues(entries)...)
	if l.hub != nil {
		l.capture(ctx, msg, entries)
	}
}

// capture sends the "err" entry to Sentry, falling back to msg when there is
// none. The remaining entries become event extras.
func (l *ZapLogger) capture(ctx context.Context, msg string, entries []logging.LogEntry) {
	hub := l.hub
	if ctxHub := sentry.GetHubFromContext(ctx); ctxHub != nil {
		hub = ctxHub
	}

	var err error
	extras := make(map[string]interface{}, len(entries))
	for _, entry := range entries {
		if e, ok := entry.Value.(error); ok && entry.Key == "err" {
			err = e
			continue
		}
		extras[entry.Key] = entry.Value
	}
	if err == nil {
		err = errors.New(msg)
	}
	extras["message"] = msg

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetExtras(extras)
		hub.CaptureException(err)
	})
}

func keysAndValues(entries []logging.LogEntry) []interface{} {
	args := make([]interface{}, 0, len(entries)*2)
	for _, e := range entries {
		args = append(args, e.Key, e.Value)
	}
	return args
}
