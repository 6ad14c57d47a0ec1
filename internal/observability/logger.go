// Package observability provides the structured logger used across the
// playground.
package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// sentryFlushTimeout bounds how long Flush waits for queued reports.
const sentryFlushTimeout = 2 * time.Second

// CoreLogger is a key/value logger with an error-capture hook.
//
// Messages are written through zap. Errors passed to CaptureError are also
// reported to Sentry when the logger was created with a Sentry hub.
type CoreLogger struct {
	sugar *zap.SugaredLogger

	// hub is nil unless error reporting is enabled.
	hub *sentry.Hub
}

// CoreLoggerParams configures NewCoreLogger.
type CoreLoggerParams struct {
	// Path is the log file. An empty path discards all log output.
	Path string

	// Verbose enables debug-level messages.
	Verbose bool

	// SentryDSN enables error reporting when non-empty.
	SentryDSN string
}

// NewCoreLogger builds a file-backed logger.
//
// The terminal is owned by the UI, so output never goes to stdout or stderr.
// Without a path, log output is discarded but errors are still reported
// when a Sentry DSN is set.
func NewCoreLogger(params CoreLoggerParams) (*CoreLogger, error) {
	logger := NewNoOpLogger()

	if params.Path != "" {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{params.Path}
		config.ErrorOutputPaths = []string{params.Path}
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if params.Verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		zl, err := config.Build()
		if err != nil {
			return nil, err
		}
		logger.sugar = zl.Sugar()
	}

	if params.SentryDSN != "" {
		client, err := sentry.NewClient(sentry.ClientOptions{Dsn: params.SentryDSN})
		if err != nil {
			logger.Warn("observability: sentry disabled", "error", err)
		} else {
			logger.hub = sentry.NewHub(client, sentry.NewScope())
		}
	}

	return logger, nil
}

// NewNoOpLogger returns a logger that discards everything.
func NewNoOpLogger() *CoreLogger {
	return &CoreLogger{sugar: zap.NewNop().Sugar()}
}

// With returns a child logger that adds args to every message.
func (cl *CoreLogger) With(args ...any) *CoreLogger {
	return &CoreLogger{sugar: cl.sugar.With(args...), hub: cl.hub}
}

func (cl *CoreLogger) Debug(msg string, args ...any) { cl.sugar.Debugw(msg, args...) }

func (cl *CoreLogger) Info(msg string, args ...any) { cl.sugar.Infow(msg, args...) }

func (cl *CoreLogger) Warn(msg string, args ...any) { cl.sugar.Warnw(msg, args...) }

func (cl *CoreLogger) Error(msg string, args ...any) { cl.sugar.Errorw(msg, args...) }

// ReportsErrors reports whether captured errors are sent to Sentry.
func (cl *CoreLogger) ReportsErrors() bool { return cl.hub != nil }

// CaptureError logs err at error level and reports it if enabled.
//
// A nil error is ignored.
func (cl *CoreLogger) CaptureError(err error, args ...any) {
	if err == nil {
		return
	}
	cl.sugar.Errorw(err.Error(), args...)

	if cl.hub != nil {
		cl.hub.CaptureException(err)
	}
}

// Sync flushes buffered log entries and pending error reports.
func (cl *CoreLogger) Sync() {
	_ = cl.sugar.Sync()
	if cl.hub != nil {
		cl.hub.Flush(sentryFlushTimeout)
	}
}
