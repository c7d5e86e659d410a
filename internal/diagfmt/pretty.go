// Package diagfmt renders parse errors and validation diagnostics for the
// command line, either as annotated source excerpts or as JSON.
package diagfmt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/scanner"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Options configures Pretty.
type Options struct {
	Color bool

	// Width is the maximum display width of an excerpt line. Zero means
	// unlimited.
	Width int

	// NoExcerpt prints only the header line of each diagnostic.
	NoExcerpt bool
}

// palette holds the colors of one rendering.
type palette struct {
	err, warn, caret, gutter, bold *color.Color
}

func newPalette(enabled bool) *palette {
	p := &palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		caret:  color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.caret, p.gutter, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Collect returns the diagnostics carried by err: parse errors, error lists
// and validation diagnostics. Other errors are returned as a diagnostic
// without position. Anything but a validation diagnostic is an error.
func Collect(err error, source string) []broadcast.Diagnostic {
	if err == nil {
		return nil
	}

	var list scanner.ErrorList
	if errors.As(err, &list) {
		var a []broadcast.Diagnostic
		for _, e := range list {
			a = append(a, Collect(e, source)...)
		}
		return a
	}

	var d broadcast.Diagnostic
	var serr *scanner.Error
	switch {
	case errors.As(err, &d):
	case errors.As(err, &serr):
		d = broadcast.Diagnostic{Pos: serr.Pos, Message: serr.Message}
	default:
		d = broadcast.Diagnostic{Message: err.Error()}
	}
	d.Source = source
	return []broadcast.Diagnostic{d}
}

// Sort orders diagnostics by position, keeping the report order of
// diagnostics at the same position.
func Sort(diags []broadcast.Diagnostic) {
	slices.SortStableFunc(diags, func(a, b broadcast.Diagnostic) int {
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line - b.Pos.Line
		}
		return a.Pos.Column - b.Pos.Column
	})
}

// Pretty writes each diagnostic as a header line followed by the source
// line it points at and a caret under the offending column.
//
//	x.css:1:2: error: pseudo element ::before must be the last part of the compound selector
//	 1 | a::before.b {color: red}
//	   |  ^
func Pretty(w io.Writer, diags []broadcast.Diagnostic, text string, opts Options) error {
	p := newPalette(opts.Color)
	lines := strings.Split(text, "\n")
	bw := bufio.NewWriter(w)

	for _, d := range diags {
		sev := p.err
		if d.Severity == broadcast.SeverityWarning {
			sev = p.warn
		}

		var loc string
		if d.Source != "" {
			loc = d.Source + ":"
		}
		if d.Pos.IsValid() {
			loc += d.Pos.String() + ":"
		}
		if loc != "" {
			fmt.Fprint(bw, p.bold.Sprint(loc), " ")
		}
		fmt.Fprintf(bw, "%s %s\n", sev.Sprint(d.Severity.String()+":"), d.Message)

		if opts.NoExcerpt || !d.Pos.IsValid() || d.Pos.Line > len(lines) {
			continue
		}
		line := strings.TrimRight(lines[d.Pos.Line-1], "\r")
		if opts.Width > 0 {
			line = runewidth.Truncate(line, opts.Width, "...")
		}

		num := strconv.Itoa(d.Pos.Line)
		gutter := strings.Repeat(" ", len(num))
		fmt.Fprintf(bw, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), line)
		fmt.Fprintf(bw, " %s %s %s%s\n", gutter, p.gutter.Sprint("|"), padding(line, d.Pos.Column), p.caret.Sprint("^"))
	}
	return bw.Flush()
}

// padding returns the whitespace placing a caret under the given one-based
// rune column of line. Tabs are kept so the caret lines up however the
// terminal expands them.
func padding(line string, column int) string {
	var b strings.Builder
	n := 1
	for _, r := range line {
		if n >= column {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
		n++
	}
	return b.String()
}
