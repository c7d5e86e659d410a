package omakase

import (
	"fmt"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/parser"
	"github.com/AdamWorthington/omakase/plugin"
	"github.com/AdamWorthington/omakase/scanner"
	"github.com/tliron/commonlog"
)

// log returns the package logger. It is looked up on use so that a backend
// configured after initialization applies.
func log() commonlog.Logger { return commonlog.GetLogger("omakase") }

// Request is a single processing run over one source text.
type Request struct {
	name    string
	text    string
	line    int
	column  int
	plugins []plugin.Plugin
}

// Source returns a request for text.
func Source(text string) *Request {
	return SourceAt(text, 1, 1)
}

// SourceAt returns a request for text that starts at the given position of
// an enclosing document. Reported positions are relative to that document.
func SourceAt(text string, line, column int) *Request {
	return &Request{text: text, line: line, column: column}
}

// Named sets the source name used in diagnostics, typically a file path.
func (r *Request) Named(name string) *Request {
	r.name = name
	return r
}

// Use adds plugins to the request. Plugins subscribe in the order they are
// used, after any plugins they depend on.
func (r *Request) Use(plugins ...plugin.Plugin) *Request {
	r.plugins = append(r.plugins, plugins...)
	return r
}

// Result is the outcome of a processing run.
type Result struct {
	Stylesheet  *ast.Stylesheet
	Diagnostics []broadcast.Diagnostic
}

// Err returns the error diagnostics as an error, or nil.
func (r *Result) Err() error {
	var list scanner.ErrorList
	for _, d := range r.Diagnostics {
		if d.Severity == broadcast.SeverityError {
			list = append(list, d)
		}
	}
	if len(list) == 0 {
		return nil
	}
	return list
}

// Process parses the source, delivering every node to the plugins, and then
// runs validation over the finished tree.
//
// A configuration error, a parse error or a failing subscriber stops
// processing and is returned. Validation problems do not; they are returned
// as diagnostics of the result.
func (r *Request) Process() (*Result, error) {
	registry := plugin.NewRegistry()
	if err := registry.Register(r.plugins...); err != nil {
		return nil, err
	}
	registry.Resolve()

	e := broadcast.NewEmitter()
	for _, p := range registry.Plugins() {
		p.Subscribe(e)
	}
	e.Seal()
	if err := e.Err(); err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	b := broadcast.NewEmittingBroadcaster(e)
	refiner := parser.NewRefiner(b)
	for _, p := range registry.Plugins() {
		if refiner.AddStrategy(p) {
			log().Debugf("added refiner strategy %T", p)
		}
	}

	sheet, err := parser.ParseStylesheet(scanner.NewAnchored(r.text, r.line, r.column), b, refiner)
	if err != nil {
		return nil, err
	}

	em := broadcast.NewErrorManager(r.name)
	vb := broadcast.NewEmittingBroadcaster(e, broadcast.PhaseValidate).WithErrorManager(em)
	if err := ast.Walk(sheet, vb.Broadcast); err != nil {
		return nil, err
	}
	log().Debugf("processed %d statements with %d diagnostics", sheet.Statements().Len(), len(em.Diagnostics()))
	return &Result{Stylesheet: sheet, Diagnostics: em.Diagnostics()}, nil
}
