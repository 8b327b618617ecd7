package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Log is the global logger instance
var Log *slog.Logger

// Options selects the sinks of the global logger.
type Options struct {
	Dev       bool   // text output at debug level instead of JSON at info level
	SentryDSN string // optional, errors only
	GelfAddr  string // optional, host:port of a GELF UDP input
	Service   string
}

// Init initializes the global logger based on environment
// Development: Text format with Debug level
// Production: JSON format with Info level
// Optionally sends errors to Sentry and every record to a GELF endpoint
func Init(opts Options) {
	Log = slog.New(newHandler(os.Stdout, opts))
	slog.SetDefault(Log)
}

func newHandler(stdout io.Writer, opts Options) slog.Handler {
	var handlers []slog.Handler

	// Base handler for stdout (always enabled)
	level := slog.LevelInfo
	if opts.Dev {
		level = slog.LevelDebug
		handlers = append(handlers, slog.NewTextHandler(stdout, &slog.HandlerOptions{
			Level: level,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(stdout, &slog.HandlerOptions{
			Level: level,
		}))
	}

	// Optional Sentry handler (sends errors only)
	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              opts.SentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	// Optional GELF handler (one UDP datagram per record)
	if opts.GelfAddr != "" {
		w, err := NewGelfWriter(opts.GelfAddr, opts.Service)
		if err == nil {
			handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: level,
			}))
		}
	}

	// Use multi-handler if we have multiple, otherwise use single
	if len(handlers) > 1 {
		return slogmulti.Fanout(handlers...)
	}
	return handlers[0]
}
