package log

import (
	"context"
	"io"
	"log"
	"os"
)

// CslLogger ghi log ra console với tiền tố [LEVEL] và run id nếu có
type CslLogger struct {
	out   *log.Logger
	debug bool
}

func NewCslLogger() (*CslLogger, error) {
	return NewCslLoggerTo(os.Stdout, os.Getenv("CRAWLER_DEBUG") != "")
}

func NewCslLoggerTo(w io.Writer, debug bool) (*CslLogger, error) {
	return &CslLogger{
		out:   log.New(w, "", log.LstdFlags),
		debug: debug,
	}, nil
}

func (l *CslLogger) write(ctx context.Context, level string, format string, args ...interface{}) {
	prefix := "[" + level + "] "
	if id := RunID(ctx); id != "" {
		prefix += "[run=" + id + "] "
	}
	l.out.Printf(prefix+format, args...)
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.write(ctx, "INFO", format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.write(ctx, "ALERT", format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.write(ctx, "ERROR", format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.write(ctx, "WARN", format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	if !l.debug {
		return
	}
	l.write(ctx, "DEBUG", format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.write(ctx, "CRITICAL", format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.write(ctx, "EMERGENCY", format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.write(ctx, "NOTICE", format, args...)
}
