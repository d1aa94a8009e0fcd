package fshimport

import "runtime"

// Option configures an Import call.
type Option func(*Options)

// Options holds the tunable behaviour of Import. The importer is
// single-threaded by default: visiting only parallelises when
// ParallelVisit is explicitly enabled.
type Options struct {
	// Performance
	WorkerCount   int
	ParallelVisit bool

	// MaxDiagnostics caps the number of diagnostics emitted per Import
	// call. 0 means unlimited.
	MaxDiagnostics int

	// StrictMode promotes warn-level diagnostics (e.g. unrecognised
	// rules) to errors before they reach the caller's sink.
	StrictMode bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		WorkerCount:    runtime.NumCPU(),
		ParallelVisit:  false,
		MaxDiagnostics: 0,
		StrictMode:     false,
	}
}

// --- Performance Options ---

// WithWorkerCount sets the number of workers used when ParallelVisit
// is enabled. Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithParallelVisit enables parallelising the visitor phase across
// documents. Safe because the preprocessor's symbol table is read-only
// for the duration of the visitor phase; per-document rule order and
// the order of returned document IRs are preserved regardless.
func WithParallelVisit(enable bool) Option {
	return func(o *Options) {
		o.ParallelVisit = enable
	}
}

// WithMaxDiagnostics caps the number of diagnostics emitted. Use 0 for
// unlimited.
func WithMaxDiagnostics(max int) Option {
	return func(o *Options) {
		o.MaxDiagnostics = max
	}
}

// WithStrictMode toggles strict mode, under which warnings are
// emitted as errors.
func WithStrictMode(enable bool) Option {
	return func(o *Options) {
		o.StrictMode = enable
	}
}

// --- Presets ---

// FastOptions returns options optimised for throughput on large
// batches: parallel visiting sized to the machine, unlimited
// diagnostics.
func FastOptions() []Option {
	return []Option{
		WithParallelVisit(true),
		WithWorkerCount(runtime.NumCPU()),
	}
}

// StrictOptions returns options for a strict import pass.
func StrictOptions() []Option {
	return []Option{
		WithStrictMode(true),
	}
}
