package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
)

// DiagnosticJSON is the JSON form of a diagnostic.
type DiagnosticJSON struct {
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
	Severity string `json:"severity"`
	Kind     string `json:"kind,omitempty"`
	Message  string `json:"message"`
}

// DiagnosticsOutput is the root of the JSON output.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
}

// JSON writes diags as a single indented JSON document.
func JSON(w io.Writer, diags []broadcast.Diagnostic) error {
	out := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, len(diags))}
	for _, d := range diags {
		j := DiagnosticJSON{
			File:     d.Source,
			Line:     d.Pos.Line,
			Column:   d.Pos.Column,
			Severity: d.Severity.String(),
			Message:  d.Message,
		}
		// Diagnostics without a node carry the zero kind.
		if d.Kind != ast.KindStylesheet {
			j.Kind = d.Kind.String()
		}
		out.Diagnostics = append(out.Diagnostics, j)

		if d.Severity == broadcast.SeverityWarning {
			out.Warnings++
		} else {
			out.Errors++
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
