package fshimport

import (
	"sync"
	"time"

	"github.com/gofhir/fshimport/ast"
	"github.com/gofhir/fshimport/diagnostic"
	"github.com/gofhir/fshimport/lexer"
	"github.com/gofhir/fshimport/parser"
	"github.com/gofhir/fshimport/resolver"
	"github.com/gofhir/fshimport/symtab"
	"github.com/gofhir/fshimport/visitor"
)

// Import runs the full pipeline over a batch of raw documents: lex and
// parse each one independently, build a shared symbol table across the
// whole batch, then visit every document's tree into its typed IR,
// resolving symbolic references against both the batch's own table and
// defs. Returns one DocumentIR per input, in the same order as inputs,
// regardless of visiting order.
func Import(inputs []RawInput, cfg Config, defs DefinitionProvider, sink diagnostic.Sink, metrics *Metrics, opts ...Option) []*ast.DocumentIR {
	started := time.Now()
	options := DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}
	if sink == nil {
		sink = diagnostic.NopSink{}
	}
	if options.MaxDiagnostics > 0 {
		sink = diagnostic.NewMaxDiagnosticsSink(sink, options.MaxDiagnostics)
	}
	countingSink := &countingSink{inner: sink, metrics: metrics}
	var pipelineSink diagnostic.Sink = countingSink
	if options.StrictMode {
		pipelineSink = diagnostic.NewStrictSink(pipelineSink)
	}

	trees := make([]*symtab.DocTree, len(inputs))
	lexPhase := time.Now()
	for i, in := range inputs {
		toks := lexer.New(in.Path, in.Content, pipelineSink).Tokens()
		errs := parser.NewErrorListener(in.Path, pipelineSink)
		trees[i] = &symtab.DocTree{File: in.Path, Tree: parser.Parse(toks, errs)}
	}
	recordPhase(metrics, "lex_parse", lexPhase)

	prePhase := time.Now()
	table := symtab.Preprocess(trees, cfg.Canonical, pipelineSink)
	recordPhase(metrics, "preprocess", prePhase)

	res := resolver.New(table, defs)
	v := visitor.New(res, countingSink)

	visitPhase := time.Now()
	docs := visitDocuments(trees, v, countingSink, metrics, options)
	recordPhase(metrics, "visit", visitPhase)

	if metrics != nil {
		metrics.RecordImport(time.Since(started))
	}
	return docs
}

// visitDocuments runs one visitor per document, sequentially or
// bounded-parallel depending on options.ParallelVisit. A buffered
// semaphore channel bounds concurrency and results are written into a
// pre-sized slice by index, so the input order is preserved in the
// returned slice regardless of completion order.
func visitDocuments(trees []*symtab.DocTree, v *visitor.Visitor, sink diagnostic.Sink, metrics *Metrics, options *Options) []*ast.DocumentIR {
	docs := make([]*ast.DocumentIR, len(trees))

	visitOne := func(dt *symtab.DocTree) *ast.DocumentIR {
		perDoc := diagnostic.NewCollectingSink()
		// Promote before forking so the per-document failure check and
		// the caller's sink agree on each diagnostic's level.
		var docSink diagnostic.Sink = forkSink{a: sink, b: perDoc}
		if options.StrictMode {
			docSink = diagnostic.NewStrictSink(docSink)
		}
		doc := visitor.New(v.Resolver, docSink).Visit(dt.File, dt.Tree)
		recordDocument(metrics, doc, len(perDoc.Errors()) > 0)
		return doc
	}

	if !options.ParallelVisit || len(trees) <= 1 {
		for i, dt := range trees {
			docs[i] = visitOne(dt)
		}
		return docs
	}

	workers := options.WorkerCount
	if workers <= 0 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, dt := range trees {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, dt *symtab.DocTree) {
			defer wg.Done()
			defer func() { <-sem }()
			docs[idx] = visitOne(dt)
		}(i, dt)
	}
	wg.Wait()
	return docs
}

// forkSink emits every diagnostic to both a and b, used to let a
// per-document CollectingSink observe visiting without replacing the
// caller's own sink.
type forkSink struct {
	a, b diagnostic.Sink
}

func (f forkSink) Emit(d diagnostic.Diagnostic) {
	f.a.Emit(d)
	f.b.Emit(d)
}

func recordDocument(metrics *Metrics, doc *ast.DocumentIR, failed bool) {
	if metrics == nil {
		return
	}
	metrics.RecordDocument(failed)
	for _, sd := range doc.Profiles.Values() {
		for range sd.Rules {
			metrics.RecordRule()
		}
	}
	for _, sd := range doc.Extensions.Values() {
		for range sd.Rules {
			metrics.RecordRule()
		}
	}
	for _, inst := range doc.Instances.Values() {
		for range inst.Rules {
			metrics.RecordRule()
		}
	}
	for _, vs := range doc.ValueSets.Values() {
		for range vs.Components {
			metrics.RecordComponent()
		}
	}
}

func recordPhase(metrics *Metrics, name string, since time.Time) {
	if metrics == nil {
		return
	}
	metrics.RecordPhase(name, time.Since(since))
}

// countingSink forwards every diagnostic to inner while tallying it
// into metrics, so callers get both transport and aggregate counts
// from one Sink.
type countingSink struct {
	inner   diagnostic.Sink
	metrics *Metrics
}

func (s *countingSink) Emit(d diagnostic.Diagnostic) {
	if s.metrics != nil {
		s.metrics.RecordDiagnostic(d.Level)
	}
	s.inner.Emit(d)
}
