package cache_test

import (
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"

	"github.com/AdamWorthington/omakase/broadcast"
	"github.com/AdamWorthington/omakase/internal/cache"
	"github.com/AdamWorthington/omakase/token"
	"github.com/vmihailenco/msgpack/v5"
)

// Ensure that keys depend on both the text and the settings.
func TestKeyFor(t *testing.T) {
	var tests = []struct {
		a, b []string
		same bool
	}{
		{a: []string{"a {b: c}"}, b: []string{"a {b: c}"}, same: true},
		{a: []string{"a {b: c}"}, b: []string{"a {b: d}"}, same: false},
		{a: []string{"a {b: c}", "inline"}, b: []string{"a {b: c}", "verbose"}, same: false},
		{a: []string{"x", "ab", "c"}, b: []string{"x", "a", "bc"}, same: false},
	}

	for i, tt := range tests {
		ka := cache.KeyFor(tt.a[0], tt.a[1:]...)
		kb := cache.KeyFor(tt.b[0], tt.b[1:]...)
		if (ka == kb) != tt.same {
			t.Errorf("%d. %q / %q: expected same=%v", i, tt.a, tt.b, tt.same)
		}
	}
}

// Ensure that an entry can be read back after it is written.
func TestCache_PutGet(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	k := cache.KeyFor("a {b: c}", "inline")
	if _, ok, err := c.Get(k); err != nil || ok {
		t.Fatalf("unexpected entry: %v, %v", ok, err)
	}

	diags := []broadcast.Diagnostic{{Pos: token.Pos{Line: 1, Column: 4}, Severity: broadcast.SeverityWarning, Message: "duplicate declaration b:c"}}
	if err := c.Put(k, cache.NewEntry("a {b:c}", diags)); err != nil {
		t.Fatal(err)
	}

	e, ok, err := c.Get(k)
	if err != nil || !ok {
		t.Fatalf("expected entry: %v, %v", ok, err)
	} else if e.Output != "a {b:c}" {
		t.Fatalf("unexpected output: %s", e.Output)
	}
	exp := []broadcast.Diagnostic{{Pos: token.Pos{Line: 1, Column: 4}, Severity: broadcast.SeverityWarning, Message: "duplicate declaration b:c", Source: "x.css"}}
	if got := e.BroadcastDiagnostics("x.css"); !reflect.DeepEqual(got, exp) {
		t.Fatalf("unexpected diagnostics: %+v", got)
	}
}

// Ensure that entries from another schema are ignored.
func TestCache_Get_Stale(t *testing.T) {
	dir := t.TempDir()
	c, err := cache.Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	k := cache.KeyFor("a {b: c}")
	b, err := msgpack.Marshal(&cache.Entry{Schema: 9999, Output: "old"})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, k.String()[:2], k.String()+".mp")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	} else if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(k); err != nil || ok {
		t.Fatalf("unexpected entry: %v, %v", ok, err)
	}

	if err := os.WriteFile(path, []byte{0xc1}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := c.Get(k); err == nil {
		t.Fatal("expected decode error")
	}
}

// Ensure that concurrent writers leave a readable entry.
func TestCache_Put_Concurrent(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := cache.KeyFor("a")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Put(k, cache.NewEntry("a", nil)); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	if e, ok, err := c.Get(k); err != nil || !ok || e.Output != "a" {
		t.Fatalf("unexpected entry: %+v, %v, %v", e, ok, err)
	}
}

// Ensure that clearing removes every entry.
func TestCache_Clear(t *testing.T) {
	c, err := cache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	k := cache.KeyFor("a")
	if err := c.Put(k, cache.NewEntry("a", nil)); err != nil {
		t.Fatal(err)
	} else if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := c.Get(k); ok {
		t.Fatal("unexpected entry")
	}

	var nilCache *cache.Cache
	if err := nilCache.Put(k, cache.NewEntry("a", nil)); err != nil {
		t.Fatal(err)
	} else if _, ok, _ := nilCache.Get(k); ok {
		t.Fatal("unexpected entry")
	}
}
