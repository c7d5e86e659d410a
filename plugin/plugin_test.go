package plugin_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/AdamWorthington/omakase"
	"github.com/AdamWorthington/omakase/ast"
	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/plugin"
)

type leaf struct{ _ int }

func (*leaf) Subscribe(e *broadcast.Emitter) {}

type mid struct{ _ int }

func (*mid) Subscribe(e *broadcast.Emitter) {}

func (*mid) Dependencies(r *plugin.Registry) error {
	_, err := plugin.Require(r, func() *leaf { return &leaf{} })
	return err
}

type top struct{ _ int }

func (*top) Subscribe(e *broadcast.Emitter) {}

func (*top) Dependencies(r *plugin.Registry) error {
	_, err := plugin.Require(r, func() *mid { return &mid{} })
	return err
}

type cycA struct{ _ int }

func (*cycA) Subscribe(e *broadcast.Emitter) {}

func (*cycA) Dependencies(r *plugin.Registry) error {
	_, err := plugin.Require(r, func() *cycB { return &cycB{} })
	return err
}

type cycB struct{ _ int }

func (*cycB) Subscribe(e *broadcast.Emitter) {}

func (*cycB) Dependencies(r *plugin.Registry) error {
	_, err := plugin.Require(r, func() *cycA { return &cycA{} })
	return err
}

// self registers itself while resolving its dependencies.
type self struct{ _ int }

func (*self) Subscribe(e *broadcast.Emitter) {}

func (p *self) Dependencies(r *plugin.Registry) error { return r.Register(p) }

// names returns the type names of the registered plugins.
func names(r *plugin.Registry) string {
	var a []string
	for _, p := range r.Plugins() {
		a = append(a, fmt.Sprintf("%T", p))
	}
	return fmt.Sprint(a)
}

// Ensure that dependencies are registered before the plugins needing them.
func TestRegistry_Register(t *testing.T) {
	var tests = []struct {
		plugins []plugin.Plugin
		exp     string
		err     string
	}{
		{plugins: []plugin.Plugin{&top{}}, exp: `[*plugin_test.leaf *plugin_test.mid *plugin_test.top]`},
		{plugins: []plugin.Plugin{&leaf{}, &top{}}, exp: `[*plugin_test.leaf *plugin_test.mid *plugin_test.top]`},
		{plugins: []plugin.Plugin{&mid{}, &leaf{}}, err: `configuration error: only one leaf plugin may be registered`},
		{plugins: []plugin.Plugin{&leaf{}, &leaf{}}, err: `configuration error: only one leaf plugin may be registered`},
		{plugins: []plugin.Plugin{&cycA{}}, err: `configuration error: dependency cycle: cycA -> cycB -> cycA`},
		{plugins: []plugin.Plugin{&self{}}, err: `configuration error: dependency cycle: self -> self`},
		{plugins: []plugin.Plugin{nil}, err: `configuration error: nil plugin`},
	}

	for i, tt := range tests {
		r := plugin.NewRegistry()
		if err := r.Register(tt.plugins...); errstring(err) != tt.err {
			t.Errorf("%d. error: exp=%q, got=%q", i, tt.err, errstring(err))
		} else if tt.err == "" && names(r) != tt.exp {
			t.Errorf("%d. plugins: exp=%s, got=%s", i, tt.exp, names(r))
		}
	}
}

// Ensure that registering the same plugin twice has no effect.
func TestRegistry_Register_Same(t *testing.T) {
	p := &leaf{}
	r := plugin.NewRegistry()
	if err := r.Register(p, p); err != nil {
		t.Fatal(err)
	} else if len(r.Plugins()) != 1 {
		t.Fatalf("unexpected plugins: %s", names(r))
	}
}

// Ensure that a resolved registry does not accept more plugins.
func TestRegistry_Resolve(t *testing.T) {
	r := plugin.NewRegistry()
	if err := r.Register(&leaf{}); err != nil {
		t.Fatal(err)
	}
	r.Resolve()
	r.Resolve()

	err := r.Register(&mid{})
	var cerr *plugin.ConfigurationError
	if !errors.As(err, &cerr) || cerr.Message != "mid registered after the registry was resolved" {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Ensure that plugins can be retrieved by type.
func TestRetrieve(t *testing.T) {
	r := plugin.NewRegistry()
	l := &leaf{}
	if _, ok := plugin.Retrieve[*leaf](r); ok {
		t.Fatal("unexpected plugin")
	}
	if err := r.Register(l); err != nil {
		t.Fatal(err)
	}
	if got, ok := plugin.Retrieve[*leaf](r); !ok || got != l {
		t.Fatal("expected plugin")
	}
	if got, err := plugin.Require(r, func() *leaf { return &leaf{} }); err != nil || got != l {
		t.Fatal("expected existing plugin")
	}
}

// Ensure that only the requested kinds are refined.
func TestAutoRefiner(t *testing.T) {
	var tests = []struct {
		refiner *plugin.AutoRefiner
		exp     string
	}{
		{refiner: plugin.NewAutoRefiner(), exp: `[]`},
		{refiner: plugin.NewAutoRefiner().Selectors(), exp: `[Selector]`},
		{refiner: plugin.NewAutoRefiner().Declarations(), exp: `[Declaration Declaration]`},
		{refiner: plugin.NewAutoRefiner().Declarations().Functions(), exp: `[Declaration Declaration FunctionValue]`},
		{refiner: plugin.NewAutoRefiner().AtRules(), exp: `[AtRule]`},
		{refiner: plugin.NewAutoRefiner().All(), exp: `[Selector Declaration Declaration FunctionValue AtRule Selector Declaration]`},
	}

	for i, tt := range tests {
		result, err := omakase.Source(`a {b: c; d: e(f)} @media print {g {h: i}}`).Use(tt.refiner).Process()
		if err != nil {
			t.Errorf("%d. unexpected error: %s", i, err)
			continue
		}

		var refined []string
		_ = ast.Walk(result.Stylesheet, func(n ast.Node) error {
			if r, ok := n.(interface{ IsRefined() bool }); ok && r.IsRefined() {
				refined = append(refined, n.Kind().String())
			}
			return nil
		})
		if s := fmt.Sprint(refined); s != tt.exp {
			t.Errorf("%d. exp=%s, got=%s", i, tt.exp, s)
		}
	}
}

// Ensure that the standard validators report what they should.
func TestStandardValidation(t *testing.T) {
	var tests = []struct {
		in  string
		exp string
	}{
		{in: `a::before {color: red}`, exp: `[]`},
		{in: `a::before > b {color: red}`, exp: `[]`},
		{in: `a::after:hover {color: red}`, exp: `[1:2: error: pseudo element ::after must be the last part of the compound selector]`},
		{in: `a {color: red; color: blue}`, exp: `[]`},
		{in: `a {color: red; margin: 0; color: red}`, exp: `[1:27: warning: duplicate declaration color:red]`},
	}

	for i, tt := range tests {
		result, err := omakase.Source(tt.in).Use(plugin.StandardValidation{}).Process()
		if err != nil {
			t.Errorf("%d. <%q> unexpected error: %s", i, tt.in, err)
			continue
		}
		var got []string
		for _, d := range result.Diagnostics {
			got = append(got, d.Error())
		}
		if s := fmt.Sprint(got); s != tt.exp {
			t.Errorf("%d. <%q> exp=%s, got=%s", i, tt.in, tt.exp, s)
		}
	}
}

// errstring returns the string representation of the error.
func errstring(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
