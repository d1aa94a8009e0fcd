package diagnostic

import (
	"sync"

	"github.com/gofhir/fshimport/logger"
)

// Sink receives diagnostics produced during an import call. The core
// never prescribes transport; callers supply a Sink.
type Sink interface {
	Emit(d Diagnostic)
}

// NopSink discards every diagnostic.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(Diagnostic) {}

// LoggingSink writes diagnostics through a logger.Logger, carrying the
// diagnostic's file and location into the log line as structured
// position tags rather than folding them into the message.
type LoggingSink struct {
	Logger *logger.Logger
}

// NewLoggingSink creates a LoggingSink over the given logger, or the
// package default logger if l is nil.
func NewLoggingSink(l *logger.Logger) *LoggingSink {
	if l == nil {
		l = logger.Default()
	}
	return &LoggingSink{Logger: l}
}

// Emit implements Sink.
func (s *LoggingSink) Emit(d Diagnostic) {
	s.Logger.Log(logLevel(d.Level), d.File, d.Location, "%s", d.Message)
}

func logLevel(level Level) logger.Level {
	switch level {
	case LevelError:
		return logger.LevelError
	case LevelWarn:
		return logger.LevelWarn
	default:
		return logger.LevelInfo
	}
}

// CollectingSink accumulates every diagnostic it receives, in order.
// It is safe for concurrent use, since the visitor phase may run
// documents in parallel.
type CollectingSink struct {
	mu   sync.Mutex
	list []Diagnostic
}

// NewCollectingSink creates an empty CollectingSink.
func NewCollectingSink() *CollectingSink {
	return &CollectingSink{}
}

// Emit implements Sink.
func (s *CollectingSink) Emit(d Diagnostic) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = append(s.list, d)
}

// All returns a copy of every diagnostic collected so far.
func (s *CollectingSink) All() []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Diagnostic, len(s.list))
	copy(out, s.list)
	return out
}

// Errors returns only the error-level diagnostics.
func (s *CollectingSink) Errors() []Diagnostic {
	return s.filter(LevelError)
}

// Warnings returns only the warn-level diagnostics.
func (s *CollectingSink) Warnings() []Diagnostic {
	return s.filter(LevelWarn)
}

func (s *CollectingSink) filter(level Level) []Diagnostic {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Diagnostic
	for _, d := range s.list {
		if d.Level == level {
			out = append(out, d)
		}
	}
	return out
}

// StrictSink wraps another Sink, promoting every warn-level diagnostic
// to error level before forwarding. Strict imports use it so that
// conditions the importer would normally tolerate (e.g. an
// unrecognised rule) surface as errors.
type StrictSink struct {
	inner Sink
}

// NewStrictSink wraps inner with warn-to-error promotion.
func NewStrictSink(inner Sink) *StrictSink {
	return &StrictSink{inner: inner}
}

// Emit implements Sink.
func (s *StrictSink) Emit(d Diagnostic) {
	if d.Level == LevelWarn {
		d.Level = LevelError
	}
	s.inner.Emit(d)
}

// MaxDiagnosticsSink wraps another Sink and drops diagnostics once a
// cap is reached (0 = unlimited), mirroring Options.WithMaxDiagnostics.
type MaxDiagnosticsSink struct {
	mu    sync.Mutex
	inner Sink
	max   int
	count int
}

// NewMaxDiagnosticsSink wraps inner with a cap of max (0 = unlimited).
func NewMaxDiagnosticsSink(inner Sink, max int) *MaxDiagnosticsSink {
	return &MaxDiagnosticsSink{inner: inner, max: max}
}

// Emit implements Sink.
func (s *MaxDiagnosticsSink) Emit(d Diagnostic) {
	s.mu.Lock()
	if s.max > 0 && s.count >= s.max {
		s.mu.Unlock()
		return
	}
	s.count++
	s.mu.Unlock()
	s.inner.Emit(d)
}
