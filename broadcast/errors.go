package broadcast

import (
	"fmt"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/scanner"
	"github.com/AdamWorthington/omakase/token"
)

// SubscriptionError is returned when a subscriber callback panics. It marks a
// broken plugin rather than malformed input.
type SubscriptionError struct {
	Name   string
	Phase  Phase
	Kind   ast.Kind
	Line   int
	Column int
	Cause  any
}

// Error returns the string representation of the error.
func (e *SubscriptionError) Error() string {
	return fmt.Sprintf("broadcast: subscriber %s failed during %s on %s at %d:%d: %v",
		e.Name, e.Phase, e.Kind, e.Line, e.Column, e.Cause)
}

// Unwrap returns the cause when it is an error.
func (e *SubscriptionError) Unwrap() error {
	err, _ := e.Cause.(error)
	return err
}

// Severity is the severity of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// String returns the name of the severity.
func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is a problem reported during validation.
type Diagnostic struct {
	Pos      token.Pos
	Severity Severity
	Message  string
	Kind     ast.Kind
	Source   string
}

// Error returns the string representation of the diagnostic.
func (d Diagnostic) Error() string {
	var loc string
	if d.Source != "" {
		loc = d.Source + ":"
	}
	if d.Pos.IsValid() {
		loc += d.Pos.String() + ":"
	}
	if loc != "" {
		loc += " "
	}
	return fmt.Sprintf("%s%s: %s", loc, d.Severity, d.Message)
}

// ErrorManager accumulates diagnostics during one processing pass.
// Reporting never stops processing.
type ErrorManager struct {
	source string
	diags  []Diagnostic
}

// NewErrorManager returns an error manager for the named source.
func NewErrorManager(source string) *ErrorManager {
	return &ErrorManager{source: source}
}

// Report records an error about n.
func (m *ErrorManager) Report(n ast.Node, format string, args ...interface{}) {
	m.add(n, SeverityError, format, args...)
}

// Warn records a warning about n.
func (m *ErrorManager) Warn(n ast.Node, format string, args ...interface{}) {
	m.add(n, SeverityWarning, format, args...)
}

func (m *ErrorManager) add(n ast.Node, sev Severity, format string, args ...interface{}) {
	d := Diagnostic{Severity: sev, Message: fmt.Sprintf(format, args...), Source: m.source}
	if n != nil {
		d.Pos, d.Kind = n.Pos(), n.Kind()
	}
	log().Debugf("%s", d)
	m.diags = append(m.diags, d)
}

// Diagnostics returns the recorded diagnostics in reporting order.
func (m *ErrorManager) Diagnostics() []Diagnostic { return m.diags }

// HasErrors returns true if any diagnostic has error severity.
func (m *ErrorManager) HasErrors() bool {
	for _, d := range m.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err returns the error-severity diagnostics as an error list, or nil.
func (m *ErrorManager) Err() error {
	var list scanner.ErrorList
	for _, d := range m.diags {
		if d.Severity == SeverityError {
			list = append(list, d)
		}
	}
	if len(list) == 0 {
		return nil
	}
	return list
}
