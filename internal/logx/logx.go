// Package logx is the engine's logging layer: a leveled global zerolog
// logger, trace-id plumbing so every event and error from one command
// invocation correlates in the logs, and sink adapters that fan the
// combat event/error streams onto structured log output.
package logx

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/freeeve/tacticalcombat/pkg/combat"
)

type contextKey string

const traceIDKey contextKey = "trace_id"

// Init configures the global logger. level is parsed as a zerolog level
// (unparseable or empty falls back to info). logFile, when non-empty,
// duplicates output to an append-only file alongside the console writer;
// a file that cannot be opened is skipped rather than fatal, since the
// engine can always run console-only.
func Init(level, logFile string) {
	lv, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lv = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lv)

	var output io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	if logFile != "" {
		if f, ferr := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); ferr == nil {
			output = io.MultiWriter(output, f)
		}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	log.Info().Str("level", lv.String()).Msg("logger initialized")
}

// Get returns the global logger instance.
func Get() zerolog.Logger {
	return log.Logger
}

// NewTraceID generates a cryptographically secure random 8-character
// alphanumeric string, suitable as a combat command's trace id. If the
// random source fails it returns a 9-character time-derived id instead.
func NewTraceID() string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 8

	b := make([]byte, length)
	_, err := rand.Read(b)
	if err != nil {
		return fmt.Sprintf("trc%06d", time.Now().UnixNano()%1000000)
	}

	for i := range b {
		b[i] = charset[b[i]%byte(len(charset))]
	}
	return string(b)
}

// WithTraceID returns a new context with the given trace id stored.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceIDFromContext extracts the trace id from context, or empty string.
func TraceIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey).(string)
	return id
}

// ForTrace returns a logger enriched with the trace id from context.
func ForTrace(ctx context.Context) zerolog.Logger {
	id := TraceIDFromContext(ctx)
	if id == "" {
		return log.Logger
	}
	return log.Logger.With().Str("trace", id).Logger()
}

// EventSink logs every declared world event. It implements
// combat.EventSink, so a host can point a session's event stream
// straight at the log; hosts that also buffer events wrap or tee it.
type EventSink struct {
	log zerolog.Logger
}

// NewEventSink returns an EventSink writing through the global logger.
func NewEventSink() *EventSink {
	return &EventSink{log: log.Logger.With().Str("component", "events").Logger()}
}

func (s *EventSink) DeclareEvent(e combat.Event) {
	s.log.Info().
		Str("type", string(e.Type)).
		Str("actor", string(e.Actor)).
		Str("session", string(e.Session)).
		Str("trace", e.Trace).
		Msg("event")
}

// ErrorSink logs declared errors at a severity matching their kind:
// programmer errors at error level, everything else at warn. It
// implements combat.ErrorSink.
type ErrorSink struct {
	log zerolog.Logger
}

// NewErrorSink returns an ErrorSink writing through the global logger.
func NewErrorSink() *ErrorSink {
	return &ErrorSink{log: log.Logger.With().Str("component", "errors").Logger()}
}

func (s *ErrorSink) DeclareError(err *combat.Error) {
	ev := s.log.Warn()
	if err.Kind.Fatal() {
		ev = s.log.Error()
	}
	ev.Str("kind", err.Kind.String()).Str("trace", err.Trace).Msg(err.Message)
}
