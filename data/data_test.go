package data_test

import (
	"fmt"
	"testing"

	"github.com/AdamWorthington/omakase/data"
)

// Ensure that prefixes are required only for old enough versions.
func TestSupportMatrix_Prefixes(t *testing.T) {
	var tests = []struct {
		matrix *data.SupportMatrix
		kind   string
		name   string
		exp    string
	}{
		{matrix: data.NewSupportMatrix().Browser(data.Firefox, "3.6"), kind: "property", name: "border-radius", exp: "[-moz-]"},
		{matrix: data.NewSupportMatrix().Browser(data.Firefox, "4"), kind: "property", name: "border-radius", exp: "[]"},
		{matrix: data.NewSupportMatrix().Browser(data.Firefox, "15"), kind: "property", name: "transform", exp: "[-moz-]"},
		{matrix: data.NewSupportMatrix().Browser(data.Chrome, "30"), kind: "property", name: "transition", exp: "[]"},
		{matrix: data.NewSupportMatrix().Browser(data.Chrome, "30"), kind: "property", name: "transform", exp: "[-webkit-]"},
		{matrix: data.NewSupportMatrix().Browser(data.Firefox, "25"), kind: "property", name: "color", exp: "[]"},
		{matrix: data.NewSupportMatrix().Browser(data.Opera, "12").Browser(data.Firefox, "15").Browser(data.Chrome, "25"), kind: "function", name: "linear-gradient", exp: "[-webkit- -moz- -o-]"},
		{matrix: data.NewSupportMatrix().Browser(data.Firefox, "15"), kind: "function", name: "calc", exp: "[-moz-]"},
		{matrix: data.NewSupportMatrix().Latest(data.Chrome), kind: "at-rule", name: "keyframes", exp: "[]"},
		{matrix: data.NewSupportMatrix().Last(data.Chrome, 10), kind: "at-rule", name: "keyframes", exp: "[-webkit-]"},
		{matrix: data.NewSupportMatrix().Browser(data.Firefox, "31"), kind: "selector", name: "selection", exp: "[-moz-]"},
	}

	for i, tt := range tests {
		var got []data.Prefix
		switch tt.kind {
		case "property":
			got = tt.matrix.PrefixesForProperty(tt.name)
		case "function":
			got = tt.matrix.PrefixesForFunction(tt.name)
		case "at-rule":
			got = tt.matrix.PrefixesForAtRule(tt.name)
		case "selector":
			got = tt.matrix.PrefixesForSelector(tt.name)
		}
		if s := fmt.Sprint(got); s != tt.exp {
			t.Errorf("%d. <%s %s> exp=%s, got=%s", i, tt.kind, tt.name, tt.exp, s)
		}
	}
}

// Ensure that browser support can be described in text.
func TestSupportMatrix_Apply(t *testing.T) {
	var tests = []struct {
		spec string
		ok   []string
		err  string
	}{
		{spec: "firefox 3.6", ok: []string{"firefox 3.6"}},
		{spec: "last 2 chrome", ok: []string{"chrome 36", "chrome 37"}},
		{spec: "latest ios-safari", ok: []string{"ios_safari 7"}},
		{spec: "all ie_mobile", ok: []string{"ie_mobile 10"}},
		{spec: "netscape 4", err: `data: unknown browser "netscape"`},
		{spec: "last x chrome", err: `data: invalid count in "last x chrome"`},
		{spec: "chrome x.y", err: `data: invalid version in "chrome x.y"`},
		{spec: "chrome", err: `data: unrecognized browser support "chrome"`},
	}

	for i, tt := range tests {
		m := data.NewSupportMatrix()
		if err := m.Apply(tt.spec); errstring(err) != tt.err {
			t.Errorf("%d. <%q> error: exp=%q, got=%q", i, tt.spec, tt.err, errstring(err))
			continue
		}
		for _, s := range tt.ok {
			var key, version string
			fmt.Sscan(s, &key, &version)
			b, _ := data.LookupBrowser(key)
			if !m.Supports(b, version) {
				t.Errorf("%d. <%q> expected support for %s", i, tt.spec, s)
			}
		}
	}
}

// Ensure that invalid versions are recorded.
func TestSupportMatrix_Err(t *testing.T) {
	m := data.NewSupportMatrix().Browser(data.Chrome, "abc").Browser(data.Chrome, "30")
	if m.Err() == nil {
		t.Fatal("expected error")
	}
	if len(m.Browsers()) != 1 || !m.Supports(data.Chrome, "30") || m.Supports(data.Chrome, "31") {
		t.Fatal("unexpected support")
	}
}

// Ensure that browsers are found regardless of spelling.
func TestLookupBrowser(t *testing.T) {
	for _, key := range []string{"Chrome", "ios_safari", "iOS-Safari", "iossafari", "OPERA MINI"} {
		if _, ok := data.LookupBrowser(key); !ok {
			t.Errorf("<%q> not found", key)
		}
	}
	if _, ok := data.LookupBrowser("lynx"); ok {
		t.Error("unexpected browser")
	}
	if got := data.Safari.Last(100); len(got) != len(data.Safari.Versions) {
		t.Errorf("unexpected versions: %v", got)
	}
}

// errstring returns the string representation of the error.
func errstring(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
