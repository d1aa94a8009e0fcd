package fshimport

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofhir/fshimport/diagnostic"
)

// Metrics tracks importer throughput using lock-free atomic operations.
// All methods are safe for concurrent use, since the visitor phase may
// run documents in parallel.
type Metrics struct {
	documentsTotal  atomic.Uint64
	documentsFailed atomic.Uint64

	rulesVisited      atomic.Uint64
	componentsVisited atomic.Uint64

	errorsTotal   atomic.Uint64
	warningsTotal atomic.Uint64
	infosTotal    atomic.Uint64

	importTimeTotal atomic.Uint64 // nanoseconds

	phaseTiming sync.Map // map[string]*phaseMetrics
}

type phaseMetrics struct {
	invocations atomic.Uint64
	totalTime   atomic.Uint64
}

// NewMetrics creates an empty Metrics instance.
func NewMetrics() *Metrics {
	return &Metrics{}
}

// RecordDocument records one imported document's outcome.
func (m *Metrics) RecordDocument(failed bool) {
	m.documentsTotal.Add(1)
	if failed {
		m.documentsFailed.Add(1)
	}
}

// RecordRule records one rule produced by the visitor.
func (m *Metrics) RecordRule() {
	m.rulesVisited.Add(1)
}

// RecordComponent records one value-set component produced by the
// visitor.
func (m *Metrics) RecordComponent() {
	m.componentsVisited.Add(1)
}

// RecordDiagnostic records one emitted diagnostic by level.
func (m *Metrics) RecordDiagnostic(level diagnostic.Level) {
	switch level {
	case diagnostic.LevelError:
		m.errorsTotal.Add(1)
	case diagnostic.LevelWarn:
		m.warningsTotal.Add(1)
	case diagnostic.LevelInfo:
		m.infosTotal.Add(1)
	}
}

// RecordImport records the wall-clock duration of one Import call.
func (m *Metrics) RecordImport(d time.Duration) {
	m.importTimeTotal.Add(uint64(d.Nanoseconds()))
}

// RecordPhase records one invocation of a named pipeline phase (Import
// records "lex_parse", "preprocess" and "visit").
func (m *Metrics) RecordPhase(phaseName string, duration time.Duration) {
	pm := m.getOrCreatePhaseMetrics(phaseName)
	pm.invocations.Add(1)
	pm.totalTime.Add(uint64(duration.Nanoseconds()))
}

func (m *Metrics) getOrCreatePhaseMetrics(name string) *phaseMetrics {
	if v, ok := m.phaseTiming.Load(name); ok {
		return v.(*phaseMetrics)
	}
	pm := &phaseMetrics{}
	actual, _ := m.phaseTiming.LoadOrStore(name, pm)
	return actual.(*phaseMetrics)
}

// DocumentsTotal returns the number of documents imported so far.
func (m *Metrics) DocumentsTotal() uint64 { return m.documentsTotal.Load() }

// DocumentsFailed returns the number of documents that produced at
// least one error-level diagnostic.
func (m *Metrics) DocumentsFailed() uint64 { return m.documentsFailed.Load() }

// ErrorsTotal returns the total error-level diagnostics emitted.
func (m *Metrics) ErrorsTotal() uint64 { return m.errorsTotal.Load() }

// WarningsTotal returns the total warn-level diagnostics emitted.
func (m *Metrics) WarningsTotal() uint64 { return m.warningsTotal.Load() }

// PhaseStats summarises one named pipeline phase's invocations.
type PhaseStats struct {
	Name        string
	Invocations uint64
	TotalTime   time.Duration
	AvgTime     time.Duration
}

// PhaseStatsFor returns statistics for a single phase.
func (m *Metrics) PhaseStatsFor(phaseName string) (PhaseStats, bool) {
	v, ok := m.phaseTiming.Load(phaseName)
	if !ok {
		return PhaseStats{Name: phaseName}, false
	}
	pm := v.(*phaseMetrics)
	return phaseStatsFrom(phaseName, pm), true
}

// AllPhaseStats returns statistics for every phase recorded so far.
func (m *Metrics) AllPhaseStats() []PhaseStats {
	var stats []PhaseStats
	m.phaseTiming.Range(func(key, value any) bool {
		stats = append(stats, phaseStatsFrom(key.(string), value.(*phaseMetrics)))
		return true
	})
	return stats
}

func phaseStatsFrom(name string, pm *phaseMetrics) PhaseStats {
	invocations := pm.invocations.Load()
	total := time.Duration(pm.totalTime.Load())
	var avg time.Duration
	if invocations > 0 {
		avg = total / time.Duration(invocations)
	}
	return PhaseStats{Name: name, Invocations: invocations, TotalTime: total, AvgTime: avg}
}

// Snapshot is a point-in-time view of every metric.
type Snapshot struct {
	DocumentsTotal  uint64
	DocumentsFailed uint64
	ErrorsTotal     uint64
	WarningsTotal   uint64
	InfosTotal      uint64
	Phases          []PhaseStats
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		DocumentsTotal:  m.documentsTotal.Load(),
		DocumentsFailed: m.documentsFailed.Load(),
		ErrorsTotal:     m.errorsTotal.Load(),
		WarningsTotal:   m.warningsTotal.Load(),
		InfosTotal:      m.infosTotal.Load(),
		Phases:          m.AllPhaseStats(),
	}
}
